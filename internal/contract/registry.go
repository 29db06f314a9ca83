package contract

import (
	"sync"

	"github.com/chainkit/sendplugin/internal/ptypes"
)

// Contract is the plugin-side handler for one transaction family. The
// dispatcher looks one up by the supportedTransactions name the plugin
// announced during the handshake.
type Contract interface {
	Name() string
	Genesis(req *ptypes.GenesisPayload) *ptypes.GenesisPayload
	BeginBlock(req *ptypes.BeginBlockPayload) *ptypes.BeginBlockPayload
	EndBlock(req *ptypes.EndBlockPayload) *ptypes.EndBlockPayload
	CheckTx(req *ptypes.CheckTxPayload) *ptypes.CheckTxPayload
	DeliverTx(req *ptypes.DeliverTxPayload) *ptypes.DeliverTxPayload
}

var (
	mu       sync.RWMutex
	registry = map[string]Contract{}
)

// Register installs c under c.Name(), replacing any prior registration.
func Register(c Contract) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.Name()] = c
}

// Get looks up a registered contract by name.
func Get(name string) (Contract, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// Names returns every currently registered contract name, suitable for a
// PluginConfig.SupportedTransactions list.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
