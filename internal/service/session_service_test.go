package service

import (
	"testing"

	"gigaaura/internal/ledger"
	"gigaaura/internal/localstore"
	"gigaaura/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	state models.PointsState
	ok    bool
}

func (f fakeRemote) Get(wallet string) (models.PointsState, bool) {
	return f.state.Clone(), f.ok
}

func TestConnectRemoteWinsOverLocal(t *testing.T) {
	cache := localstore.New(t.TempDir())
	cache.WritePoints("W1", models.PointsState{TotalPoints: 100})
	led := ledger.New(cache, nil, nil)
	remote := fakeRemote{state: models.PointsState{TotalPoints: 250, Transactions: []models.Transaction{}}, ok: true}
	svc := NewSessionService(led, cache, remote)

	first := svc.Connect("W1")
	require.Equal(t, int64(100), first.TotalPoints, "phase-1 view comes from the cache")

	svc.Settle()
	require.Equal(t, int64(250), led.Get("W1").TotalPoints, "remote store is authoritative once it resolves")
}

func TestConnectLocalOnlyWhenRemoteFails(t *testing.T) {
	cache := localstore.New(t.TempDir())
	cache.WritePoints("W1", models.PointsState{TotalPoints: 180})
	led := ledger.New(cache, nil, nil)
	svc := NewSessionService(led, cache, fakeRemote{ok: false})

	first := svc.Connect("W1")
	svc.Settle()

	require.Equal(t, int64(180), first.TotalPoints)
	require.Equal(t, int64(180), led.Get("W1").TotalPoints)
}

func TestConnectDefaultsWhenNeitherSourceHasData(t *testing.T) {
	cache := localstore.New(t.TempDir())
	led := ledger.New(cache, nil, nil)
	svc := NewSessionService(led, cache, fakeRemote{ok: false})

	first := svc.Connect("fresh-wallet")
	svc.Settle()

	require.Equal(t, int64(100), first.TotalPoints)
	require.Empty(t, first.Transactions)
	require.Equal(t, int64(100), led.Get("fresh-wallet").TotalPoints)
}

func TestConnectFreshensCacheFromRemote(t *testing.T) {
	cache := localstore.New(t.TempDir())
	led := ledger.New(cache, nil, nil)
	remote := fakeRemote{state: models.PointsState{TotalPoints: 250, Transactions: []models.Transaction{}}, ok: true}
	svc := NewSessionService(led, cache, remote)

	svc.Connect("W1")
	svc.Settle()

	cached, ok := cache.ReadPoints("W1")
	require.True(t, ok)
	require.Equal(t, int64(250), cached.TotalPoints)
}

func TestDisconnectDropsLedgerState(t *testing.T) {
	cache := localstore.New(t.TempDir())
	led := ledger.New(cache, nil, nil)
	svc := NewSessionService(led, cache, fakeRemote{ok: false})

	svc.Connect("W1")
	svc.Settle()
	require.True(t, led.Connected("W1"))

	svc.Disconnect("W1")
	require.False(t, led.Connected("W1"))
}
