package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/barter-network/barterd/internal/core/application"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func apiURL(ctx *cli.Context, path string) string {
	return strings.TrimSuffix(ctx.String("rpcserver"), "/") + path
}

func doRequest(method, url string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		var errReply struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errReply) == nil && errReply.Error != "" {
			return nil, fmt.Errorf("%s", errReply.Error)
		}
		return nil, fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	return raw, nil
}

func printRespJSON(raw json.RawMessage) {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "\t"); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(out.String())
}

// parseAssets turns repeated "collection:tokenID" args into the wire
// representation accepted by the daemon.
func parseAssets(values []string) ([]application.AssetInfo, error) {
	assets := make([]application.AssetInfo, 0, len(values))
	for _, v := range values {
		idx := strings.LastIndex(v, ":")
		if idx < 0 {
			return nil, fmt.Errorf(
				"invalid asset %q, expected format collection:tokenID", v,
			)
		}
		tokenID, err := strconv.ParseUint(v[idx+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid token id in asset %q", v)
		}
		assets = append(assets, application.AssetInfo{
			Collection: v[:idx],
			TokenID:    tokenID,
		})
	}
	return assets, nil
}
