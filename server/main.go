package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohitkumar/txwizard/agent"
	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/config"
	"github.com/mohitkumar/txwizard/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("storage-impl", "memory", "session storage for wizard state, memory or redis")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "txwizard", "namespace used in storage")
	cmd.Flags().String("session-id", "default", "session the saved wizard state belongs to")
	cmd.Flags().Int("http-port", config.DEFAULT_HTTP_PORT, "http port for rest endpoints")
	cmd.Flags().Duration("session-ttl", config.DEFAULT_SESSION_TTL, "how long a saved wizard state stays restorable")
	cmd.Flags().String("encoder-decoder", "JSON", "encoder decoder used to serialize wizard state")
	cmd.Flags().String("analytics-file", "", "file analytics events are written to, logged when empty")
	cmd.Flags().Int("tracker-capacity", analytics.DEFAULT_TRACKER_CAPACITY, "analytics tracker queue capacity")
	cmd.Flags().Bool("default-execute", true, "execute immediately when possible instead of only signing")
	cmd.Flags().String("log-level", "info", "log level")
	cmd.Flags().String("chain-id", "1", "chain id of the safe")
	cmd.Flags().String("safe-address", "", "address of the safe")
	cmd.Flags().String("wallet-address", "", "address of the connected wallet")
	cmd.Flags().Int("threshold", 1, "confirmations the safe requires")
	cmd.Flags().Uint64("nonce", 0, "current nonce of the safe")
	cmd.Flags().Bool("owner", true, "connected wallet is an owner of the safe")
	cmd.Flags().Bool("proposer", false, "connected wallet is a proposer of the safe")
	cmd.Flags().Bool("counterfactual", false, "safe is not deployed yet")
	cmd.Flags().String("role-key", "", "role allowing the connected wallet to execute")
	cmd.Flags().String("role-mod-address", "", "address of the roles module")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			return err
		}
	}

	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.RedisConfig.SessionId = viper.GetString("session-id")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.SessionTTL = viper.GetDuration("session-ttl")
	c.cfg.EncoderDecoderType = config.EncoderDecoderType(viper.GetString("encoder-decoder"))
	c.cfg.TrackerCapacity = viper.GetInt("tracker-capacity")
	c.cfg.DefaultExecute = viper.GetBool("default-execute")
	c.cfg.LogLevel = viper.GetString("log-level")
	c.cfg.AnalyticsConfig = analytics.DataCollectorConfig{CollectorType: analytics.LOGGER_DATA_COLLECTOR}
	if file := viper.GetString("analytics-file"); file != "" {
		c.cfg.AnalyticsConfig = analytics.DataCollectorConfig{
			FileName:      file,
			CollectorType: analytics.LOG_FILE_DATA_COLLECTOR,
		}
	}
	c.cfg.SafeConfig = config.SafeConfig{
		ChainId:        viper.GetString("chain-id"),
		SafeAddress:    viper.GetString("safe-address"),
		WalletAddress:  viper.GetString("wallet-address"),
		Threshold:      viper.GetInt("threshold"),
		Nonce:          viper.GetUint64("nonce"),
		Owner:          viper.GetBool("owner"),
		Proposer:       viper.GetBool("proposer"),
		Counterfactual: viper.GetBool("counterfactual"),
		RoleKey:        viper.GetString("role-key"),
		RoleModAddress: viper.GetString("role-mod-address"),
	}
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	logger.Init(c.cfg.LogLevel)
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		return err
	}
	if err = agent.Start(); err != nil {
		return err
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-agent.Done():
	}
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "txwizard",
		Short:   "serves the multisig transaction wizard over http",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
