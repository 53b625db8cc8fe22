package agent

import (
	"testing"

	"github.com/mohitkumar/txwizard/config"
	"github.com/stretchr/testify/require"
)

func TestAgentLifecycle(t *testing.T) {
	a, err := New(config.Config{
		StorageType: config.STORAGE_TYPE_INMEM,
		HttpPort:    0,
		SafeConfig: config.SafeConfig{
			ChainId:     "1",
			SafeAddress: "0x00000000000000000000000000000000000000aa",
			Owner:       true,
			Threshold:   1,
		},
	})
	require.NoError(t, err)
	require.NoError(t, a.Start())
	require.NoError(t, a.Shutdown())
	require.NoError(t, a.Shutdown())
	<-a.Done()
}

func TestAgentRejectsInvalidConfig(t *testing.T) {
	_, err := New(config.Config{StorageType: "dynamo"})
	require.Error(t, err)

	_, err = New(config.Config{StorageType: config.STORAGE_TYPE_REDIS})
	require.Error(t, err)

	_, err = New(config.Config{StorageType: config.STORAGE_TYPE_INMEM, SafeConfig: config.SafeConfig{SafeAddress: "not-an-address"}})
	require.Error(t, err)
}
