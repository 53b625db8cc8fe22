package container

import (
	"github.com/mohitkumar/txwizard/analytics"
	"github.com/mohitkumar/txwizard/config"
	"github.com/mohitkumar/txwizard/flow"
	"github.com/mohitkumar/txwizard/flows/changethreshold"
	"github.com/mohitkumar/txwizard/flows/tokentransfer"
	"github.com/mohitkumar/txwizard/model"
	"github.com/mohitkumar/txwizard/persistence"
	rd "github.com/mohitkumar/txwizard/persistence/redis"
	"github.com/mohitkumar/txwizard/util"
	"github.com/mohitkumar/txwizard/wallet"
	"github.com/mohitkumar/txwizard/wizard"
)

type DIContiner struct {
	initialized     bool
	FlowStateEncDec util.EncoderDecoder[model.PersistedFlowState]
	sessionStorage  persistence.SessionStorage
	flowStateStore  persistence.FlowStateStore
	collector       analytics.Collector
	wallet          *wallet.DryRun
	tracker         *analytics.TxTracker
	identity        *wizard.MutableIdentity
	catalog         flow.Catalog
	defaultExecute  bool
}

func (d *DIContiner) setInitialized() {
	d.initialized = true
}

func NewDiContainer() *DIContiner {
	return &DIContiner{
		initialized: false,
	}
}

func (d *DIContiner) Init(conf config.Config) error {
	switch conf.EncoderDecoderType {
	default:
		d.FlowStateEncDec = util.NewJsonEncoderDecoder[model.PersistedFlowState]()
	}

	ttl := conf.SessionTTL
	if ttl <= 0 {
		ttl = config.DEFAULT_SESSION_TTL
	}
	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		rdConf := rd.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
			SessionId: conf.RedisConfig.SessionId,
			TTL:       ttl,
		}
		d.sessionStorage = rd.NewRedisSessionStorage(rdConf)
	default:
		d.sessionStorage = persistence.NewMemorySessionStorage(ttl)
	}
	d.flowStateStore = persistence.NewSessionFlowStateStore(d.sessionStorage, d.FlowStateEncDec, persistence.WithMaxAge(ttl))

	collector, err := analytics.NewDataCollector(conf.AnalyticsConfig)
	if err != nil {
		return err
	}
	d.collector = collector
	d.wallet = wallet.NewDryRun("Custom")
	d.tracker = analytics.NewTxTracker(d.wallet, d.collector, conf.TrackerCapacity)
	d.identity = wizard.NewMutableIdentity(conf.Identity())
	d.defaultExecute = conf.DefaultExecute
	d.catalog = flow.Catalog{
		TokenTransfer:   tokentransfer.Load,
		ChangeThreshold: changethreshold.Load,
	}
	d.setInitialized()
	return nil
}

func (d *DIContiner) check() {
	if !d.initialized {
		panic("container not initalized")
	}
}

func (d *DIContiner) GetFlowStateStore() persistence.FlowStateStore {
	d.check()
	return d.flowStateStore
}

func (d *DIContiner) GetTracker() *analytics.TxTracker {
	d.check()
	return d.tracker
}

func (d *DIContiner) GetCatalog() flow.Catalog {
	d.check()
	return d.catalog
}

func (d *DIContiner) GetIdentity() *wizard.MutableIdentity {
	d.check()
	return d.identity
}

func (d *DIContiner) GetWallet() *wallet.DryRun {
	d.check()
	return d.wallet
}

// Env is the environment every flow opened by this process shares.
func (d *DIContiner) Env() wizard.Env {
	d.check()
	return wizard.Env{
		Identity:       d.identity,
		Wallet:         d.wallet,
		Store:          d.flowStateStore,
		Tracker:        d.tracker,
		Collector:      d.collector,
		DefaultExecute: d.defaultExecute,
	}
}

// Close releases the session storage connection when it holds one.
func (d *DIContiner) Close() error {
	if c, ok := d.sessionStorage.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
