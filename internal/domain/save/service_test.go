package save_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/eggsim/internal/catalog"
	"github.com/rpggio/eggsim/internal/clock"
	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/format"
	"github.com/rpggio/eggsim/internal/repository"
	"github.com/rpggio/eggsim/internal/repository/mocks"
)

type fixture struct {
	clk    *clock.FakeClock
	engine *progression.Engine
	codec  *save.Codec
	repo   *mocks.SaveRepository
	svc    *save.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := catalog.Default()
	clk := clock.NewFakeClock(start)
	engine := progression.NewEngine(cat, progression.Options{Clock: clk})
	codec := save.NewCodec(cat)
	repo := &mocks.SaveRepository{}
	svc := save.NewService(engine, repo, codec, save.Options{Clock: clk})
	return &fixture{clk: clk, engine: engine, codec: codec, repo: repo, svc: svc}
}

func (f *fixture) storedRecord(t *testing.T, snap save.Snapshot) *save.Record {
	t.Helper()
	data, err := f.codec.Encode(snap)
	require.NoError(t, err)
	return &save.Record{Slot: save.DefaultSlot, Version: save.Version, Payload: data, SavedAt: snap.State.LastSaveTime}
}

func TestSaveService_LoadMissingStartsFresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("Get", ctx, save.DefaultSlot).Return((*save.Record)(nil), repository.ErrNotFound)

	res, err := f.svc.Load(ctx)
	require.NoError(t, err)
	require.True(t, res.Fresh)
	require.Zero(t, f.engine.Snapshot().TotalResourceEarned)
	require.Equal(t, save.DefaultSettings(), f.svc.Settings())
}

func TestSaveService_LoadCreditsOfflineProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	st := playedState()
	settings := save.DefaultSettings()
	settings.NumberFormat = format.Standard
	f.repo.On("Get", ctx, save.DefaultSlot).Return(f.storedRecord(t, save.Snapshot{State: st, Settings: settings, Version: save.Version}), nil)

	res, err := f.svc.Load(ctx)
	require.NoError(t, err)
	require.False(t, res.Fresh)
	require.Equal(t, time.Hour, res.Away)

	// 12 chickens on the blue tier with 3 prestige currency: 12 * 2 * 1.03/s
	rate := 12 * 2 * 1.03
	require.InDelta(t, float64(int64(rate*3600*0.1)), res.OfflineCredit, 1e-9)

	restored := f.engine.Snapshot()
	require.InDelta(t, st.CurrentResource+res.OfflineCredit, restored.CurrentResource, 1e-9)
	require.Equal(t, catalog.TierID("blue"), restored.CurrentTier)
	require.Equal(t, format.Standard, f.svc.Settings().NumberFormat)
}

func TestSaveService_LoadMalformedKeepsEngine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.engine.AddResource(42)
	f.repo.On("Get", ctx, save.DefaultSlot).Return(&save.Record{Slot: save.DefaultSlot, Payload: []byte(`{"state":"nope"}`)}, nil)

	_, err := f.svc.Load(ctx)
	require.ErrorIs(t, err, save.ErrMalformedSave)
	require.Equal(t, 42.0, f.engine.Snapshot().CurrentResource)
}

func TestSaveService_LoadStorageError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	boom := errors.New("disk on fire")
	f.repo.On("Get", ctx, save.DefaultSlot).Return((*save.Record)(nil), boom)

	_, err := f.svc.Load(ctx)
	require.ErrorIs(t, err, save.ErrStorage)
	require.ErrorIs(t, err, boom)
}

func TestSaveService_SaveCheckpointsEngine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.engine.AddResource(500)
	f.clk.Advance(90 * time.Second)

	var stored *save.Record
	f.repo.On("Put", ctx, mock.AnythingOfType("*save.Record")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*save.Record) }).
		Return(nil)

	require.NoError(t, f.svc.Save(ctx))
	require.NotNil(t, stored)
	require.Equal(t, save.DefaultSlot, stored.Slot)
	require.Equal(t, save.Version, stored.Version)
	require.Equal(t, f.clk.Now(), stored.SavedAt)

	snap, err := f.codec.Decode(stored.Payload, f.clk.Now())
	require.NoError(t, err)
	require.Equal(t, 500.0, snap.State.CurrentResource)
	require.Equal(t, 90.0, snap.State.TotalPlayTimeSeconds)
	require.Equal(t, f.clk.Now(), snap.State.LastOnlineTime)
}

func TestSaveService_SaveStorageError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.repo.On("Put", ctx, mock.Anything).Return(errors.New("read-only"))

	err := f.svc.Save(ctx)
	require.ErrorIs(t, err, save.ErrStorage)
}

func TestSaveService_ExportImport(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)
	src.engine.AddResource(2500)
	_, err := src.engine.PurchaseProducer("chicken")
	require.NoError(t, err)
	src.svc.UpdateSettings(save.Settings{NumberFormat: format.Scientific, MasterVolume: 0.3})

	exported, err := src.svc.Export()
	require.NoError(t, err)

	dst := newFixture(t)
	dst.repo.On("Put", ctx, mock.Anything).Return(nil).Once()
	require.NoError(t, dst.svc.Import(ctx, exported))

	got := dst.engine.Snapshot()
	require.Equal(t, src.engine.Snapshot().CurrentResource, got.CurrentResource)
	require.Equal(t, int64(1), got.ProducerCount("chicken"))
	require.Equal(t, format.Scientific, dst.svc.Settings().NumberFormat)
	require.Equal(t, 0.3, dst.svc.Settings().MasterVolume)
	dst.repo.AssertExpectations(t)
}

func TestSaveService_ImportMalformedChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.engine.AddResource(77)
	before := f.engine.Snapshot()

	err := f.svc.Import(ctx, "definitely not a save")
	require.ErrorIs(t, err, save.ErrMalformedSave)
	require.Equal(t, before, f.engine.Snapshot())
	f.repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSaveService_HasSave(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.repo.On("Get", ctx, save.DefaultSlot).Return(&save.Record{Slot: save.DefaultSlot}, nil)
	ok, err := f.svc.HasSave(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	f = newFixture(t)
	f.repo.On("Get", ctx, save.DefaultSlot).Return((*save.Record)(nil), repository.ErrNotFound)
	ok, err = f.svc.HasSave(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveService_ResetKeepsSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.engine.AddResource(1e6)
	f.svc.UpdateSettings(save.Settings{NumberFormat: format.Standard})
	f.repo.On("Delete", ctx, save.DefaultSlot).Return(repository.ErrNotFound)

	require.NoError(t, f.svc.Reset(ctx))
	require.Zero(t, f.engine.Snapshot().TotalResourceEarned)
	require.Equal(t, format.Standard, f.svc.Settings().NumberFormat)
	f.repo.AssertExpectations(t)
}

func TestSaveService_CustomSlot(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	repo := &mocks.SaveRepository{}
	engine := progression.NewEngine(cat, progression.Options{Clock: clock.NewFakeClock(start)})
	svc := save.NewService(engine, repo, save.NewCodec(cat), save.Options{Slot: "alt"})
	repo.On("Delete", ctx, "alt").Return(nil)

	require.Equal(t, "alt", svc.Slot())
	require.NoError(t, svc.Reset(ctx))
	repo.AssertExpectations(t)
}
