package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/model"
)

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type EncoderDecoderType string

const JSON_ENCODER_DECODER EncoderDecoderType = "JSON"

const DEFAULT_SESSION_TTL = time.Hour
const DEFAULT_HTTP_PORT = 8080

type Config struct {
	RedisConfig        RedisStorageConfig
	InMemoryConfig     InmemStorageConfig
	HttpPort           int
	StorageType        StorageType
	EncoderDecoderType EncoderDecoderType
	SessionTTL         time.Duration
	DefaultExecute     bool
	LogLevel           string
	TrackerCapacity    int
	AnalyticsConfig    analytics.DataCollectorConfig
	SafeConfig         SafeConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
	SessionId string
}

type InmemStorageConfig struct {
}

// SafeConfig seeds the identity of the demo session: which safe, which wallet,
// and what that wallet may do on it.
type SafeConfig struct {
	ChainId        string
	SafeAddress    string
	WalletAddress  string
	Threshold      int
	Nonce          uint64
	Owner          bool
	Proposer       bool
	Counterfactual bool
	RoleKey        string
	RoleModAddress string
}

func (c Config) Validate() error {
	switch c.StorageType {
	case STORAGE_TYPE_INMEM:
	case STORAGE_TYPE_REDIS:
		if len(c.RedisConfig.Addrs) == 0 {
			return fmt.Errorf("redis storage needs at least one address")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.StorageType)
	}
	if c.SafeConfig.SafeAddress != "" && !common.IsHexAddress(c.SafeConfig.SafeAddress) {
		return fmt.Errorf("invalid safe address %q", c.SafeConfig.SafeAddress)
	}
	if c.SafeConfig.WalletAddress != "" && !common.IsHexAddress(c.SafeConfig.WalletAddress) {
		return fmt.Errorf("invalid wallet address %q", c.SafeConfig.WalletAddress)
	}
	if c.SafeConfig.RoleModAddress != "" && !common.IsHexAddress(c.SafeConfig.RoleModAddress) {
		return fmt.Errorf("invalid role module address %q", c.SafeConfig.RoleModAddress)
	}
	if c.SafeConfig.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative")
	}
	return nil
}

func (c Config) Identity() model.Identity {
	sc := c.SafeConfig
	threshold := sc.Threshold
	if threshold == 0 {
		threshold = 1
	}
	id := model.Identity{
		ChainID:              sc.ChainId,
		SafeAddress:          common.HexToAddress(sc.SafeAddress),
		WalletAddress:        common.HexToAddress(sc.WalletAddress),
		IsCounterfactualSafe: sc.Counterfactual,
		IsSafeOwner:          sc.Owner,
		IsWalletProposer:     sc.Proposer,
		Threshold:            threshold,
		SafeNonce:            sc.Nonce,
	}
	if sc.RoleKey != "" {
		id.AllowingRole = &model.Role{
			Key:        sc.RoleKey,
			ModAddress: common.HexToAddress(sc.RoleModAddress),
		}
	}
	return id
}
