package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	// ListenPortKey is the port where the HTTP interface will listen on
	ListenPortKey = "LISTEN_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// FeePerNFTKey is the per-asset trade fee expressed in coins, ie. "0.05".
	// It gets converted to base units (1 coin = 10^8 base units) at startup.
	FeePerNFTKey = "FEE_PER_NFT"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"

	DbLocation = "db"

	// DBBadger and DBInMemory are the supported values for DBTypeKey.
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var coinPrecision = decimal.New(1, 8)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("BARTER")
	vip.AutomaticEnv()

	vip.SetDefault(ListenPortKey, 7070)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(FeePerNFTKey, "0.01")
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(DBTypeKey, DBBadger)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetFeePerNFT returns the configured per-asset fee in base units.
func GetFeePerNFT() (uint64, error) {
	fee, err := decimal.NewFromString(GetString(FeePerNFTKey))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", FeePerNFTKey, err)
	}
	if fee.IsNegative() {
		return 0, fmt.Errorf("%s must not be negative", FeePerNFTKey)
	}

	baseUnits := fee.Mul(coinPrecision)
	if !baseUnits.IsInteger() {
		return 0, fmt.Errorf(
			"%s has more than 8 decimal places", FeePerNFTKey,
		)
	}
	return uint64(baseUnits.IntPart()), nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := GetFeePerNFT(); err != nil {
		return err
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"%s must be either %s or %s", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) == DBInMemory {
		return nil
	}
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".barterd"
	}
	return filepath.Join(home, ".barterd")
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
