package leader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/scout/testkit"
)

func TestNewRedisRequiresConnector(t *testing.T) {
	_, err := NewRedis(nil, &Config{Driver: DriverRedis})
	assert.ErrorIs(t, err, ErrConnectorNil)
}

func TestNewEtcdRequiresConnector(t *testing.T) {
	_, err := NewEtcd(nil, &Config{Driver: DriverEtcd})
	assert.ErrorIs(t, err, ErrConnectorNil)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"redis 后端合法", Config{Driver: DriverRedis}, false},
		{"etcd 后端合法", Config{Driver: DriverEtcd}, false},
		{"未知后端拒绝", Config{Driver: "zookeeper"}, true},
		{"空后端拒绝", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.setDefaults()
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDriver)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Driver: DriverRedis}
	cfg.setDefaults()

	assert.Equal(t, "scout:leader", cfg.Key)
	assert.Equal(t, 15*time.Second, cfg.TTL)
	assert.Equal(t, 2*time.Second, cfg.RetryInterval)
}

func TestRedisElectionExclusivity(t *testing.T) {
	conn := testkit.GetRedisConnector(t)
	ctx := context.Background()
	key := "scout:test:leader:" + testkit.NewID()

	newElector := func() Elector {
		e, err := NewRedis(conn, &Config{
			Driver:        DriverRedis,
			Key:           key,
			TTL:           5 * time.Second,
			RetryInterval: 50 * time.Millisecond,
		}, WithLogger(testkit.NewLogger()))
		require.NoError(t, err)
		return e
	}

	first := newElector()
	second := newElector()
	defer first.Close()
	defer second.Close()

	ok, err := first.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, first.IsLeader())

	// 同一键上第二个实例拿不到领导权
	ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, second.IsLeader())

	// 让出后第二个实例可以当选
	require.NoError(t, first.Resign(ctx))
	assert.False(t, first.IsLeader())

	ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Resign(ctx))
}

func TestRedisCampaignBlocksUntilElected(t *testing.T) {
	conn := testkit.GetRedisConnector(t)
	ctx := context.Background()
	key := "scout:test:leader:" + testkit.NewID()

	cfg := &Config{
		Driver:        DriverRedis,
		Key:           key,
		TTL:           5 * time.Second,
		RetryInterval: 50 * time.Millisecond,
	}
	holder, err := NewRedis(conn, cfg)
	require.NoError(t, err)
	defer holder.Close()

	challenger, err := NewRedis(conn, &Config{
		Driver:        cfg.Driver,
		Key:           cfg.Key,
		TTL:           cfg.TTL,
		RetryInterval: cfg.RetryInterval,
	})
	require.NoError(t, err)
	defer challenger.Close()

	ok, err := holder.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	elected := make(chan error, 1)
	go func() {
		elected <- challenger.Campaign(ctx)
	}()

	time.Sleep(150 * time.Millisecond)
	require.NoError(t, holder.Resign(ctx))

	select {
	case err := <-elected:
		require.NoError(t, err)
		assert.True(t, challenger.IsLeader())
	case <-time.After(3 * time.Second):
		t.Fatal("campaign did not win after holder resigned")
	}
	require.NoError(t, challenger.Resign(ctx))
}

func TestRedisResignWithoutLeadership(t *testing.T) {
	conn := testkit.GetRedisConnector(t)

	e, err := NewRedis(conn, &Config{Driver: DriverRedis, Key: "scout:test:leader:" + testkit.NewID()})
	require.NoError(t, err)
	defer e.Close()

	assert.ErrorIs(t, e.Resign(context.Background()), ErrNotLeader)
}

func TestEtcdElectionExclusivity(t *testing.T) {
	conn := testkit.GetEtcdConnector(t)
	ctx := context.Background()
	key := "/scout/test/leader/" + testkit.NewID()

	newElector := func() Elector {
		e, err := NewEtcd(conn, &Config{
			Driver:        DriverEtcd,
			Key:           key,
			TTL:           5 * time.Second,
			RetryInterval: 50 * time.Millisecond,
		}, WithLogger(testkit.NewLogger()))
		require.NoError(t, err)
		return e
	}

	first := newElector()
	second := newElector()
	defer first.Close()
	defer second.Close()

	ok, err := first.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, first.IsLeader())

	ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Resign(ctx))

	ok, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Resign(ctx))
}
