package address_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/passdy/intake/internal/address"
	"github.com/passdy/intake/internal/address/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recorder collects every snapshot a resolver publishes.
type recorder struct {
	mu    sync.Mutex
	snaps []address.Snapshot
}

func (r *recorder) publish(s address.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []address.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]address.Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

func (r *recorder) last() address.Snapshot {
	snaps := r.all()
	if len(snaps) == 0 {
		return address.Snapshot{}
	}
	return snaps[len(snaps)-1]
}

func newResolver(t *testing.T, tier address.Tier, lookup address.Lookuper) (*address.Resolver, *recorder) {
	t.Helper()
	rec := &recorder{}
	r, err := address.NewResolver(tier, lookup, address.WithPublisher(rec.publish))
	require.NoError(t, err)
	return r, rec
}

func districtReq(parent address.ID) address.Request {
	return address.Request{Tier: address.TierDistrict, ParentID: parent}
}

func TestNewResolver(t *testing.T) {
	t.Run("nil lookuper returns error", func(t *testing.T) {
		r, err := address.NewResolver(address.TierProvince, nil)
		assert.Nil(t, r)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "lookuper")
	})

	t.Run("unknown tier returns error", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		r, err := address.NewResolver(address.Tier("street"), lookup)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, address.ErrUnknownTier)
	})

	t.Run("starts empty", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		r, err := address.NewResolver(address.TierWard, lookup)
		require.NoError(t, err)
		snap := r.Snapshot()
		assert.Equal(t, address.TierWard, snap.Tier)
		assert.Empty(t, snap.Options)
		assert.False(t, snap.Loading)
	})
}

func TestResolver_Province(t *testing.T) {
	ctx := context.Background()

	t.Run("mount fetches without parent id", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, address.Request{Tier: address.TierProvince}).
			Return([]address.Record{{ID: 1, Name: "Hà Nội"}, {ID: 79, Name: "Hồ Chí Minh"}}, nil).
			Once()

		r, rec := newResolver(t, address.TierProvince, lookup)
		r.Mount(ctx)
		r.Wait()

		snap := r.Snapshot()
		assert.False(t, snap.Loading)
		assert.NoError(t, snap.Err)
		assert.Equal(t, []address.Option{
			{Value: 1, Label: "Hà Nội"},
			{Value: 79, Label: "Hồ Chí Minh"},
		}, snap.Options)

		snaps := rec.all()
		require.Len(t, snaps, 2)
		assert.True(t, snaps[0].Loading)
		assert.False(t, snaps[1].Loading)
	})

	t.Run("parent is ignored", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, address.Request{Tier: address.TierProvince}).
			Return([]address.Record{{ID: 1, Name: "Hà Nội"}}, nil).
			Once()

		r, _ := newResolver(t, address.TierProvince, lookup)
		r.Mount(ctx)
		r.SetParent(ctx, 42)
		r.Wait()

		assert.Equal(t, address.ID(0), r.Snapshot().Parent)
	})

	t.Run("second mount is a no-op", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, nil).Once()

		r, _ := newResolver(t, address.TierProvince, lookup)
		r.Mount(ctx)
		r.Mount(ctx)
		r.Wait()
	})
}

func TestResolver_UnsetParent(t *testing.T) {
	ctx := context.Background()

	for _, tier := range []address.Tier{address.TierDistrict, address.TierWard} {
		t.Run(string(tier), func(t *testing.T) {
			lookup := mocks.NewMockLookuper(t)

			r, rec := newResolver(t, tier, lookup)
			r.Mount(ctx)
			r.Wait()

			lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
			snaps := rec.all()
			require.Len(t, snaps, 1)
			assert.Empty(t, snaps[0].Options)
			assert.False(t, snaps[0].Loading)
		})
	}
}

func TestResolver_SetParent(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches for new parent", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, districtReq(79)).
			Return([]address.Record{{ID: 760, Name: "Quận 1"}}, nil).
			Once()

		r, _ := newResolver(t, address.TierDistrict, lookup)
		r.Mount(ctx)
		r.SetParent(ctx, 79)
		r.Wait()

		snap := r.Snapshot()
		assert.Equal(t, address.ID(79), snap.Parent)
		assert.Equal(t, []address.Option{{Value: 760, Label: "Quận 1"}}, snap.Options)
	})

	t.Run("unchanged parent does not refetch", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, districtReq(79)).
			Return([]address.Record{{ID: 760, Name: "Quận 1"}}, nil).
			Once()

		r, rec := newResolver(t, address.TierDistrict, lookup)
		r.Mount(ctx)
		r.SetParent(ctx, 79)
		r.Wait()
		published := len(rec.all())

		r.SetParent(ctx, 79)
		r.Wait()

		assert.Len(t, rec.all(), published)
	})

	t.Run("parent before mount is used by mount", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, districtReq(1)).
			Return([]address.Record{{ID: 1, Name: "Ba Đình"}}, nil).
			Once()

		r, _ := newResolver(t, address.TierDistrict, lookup)
		r.SetParent(ctx, 1)
		r.Mount(ctx)
		r.Wait()

		assert.Len(t, r.Snapshot().Options, 1)
	})

	t.Run("clearing parent empties options without lookup", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, districtReq(79)).
			Return([]address.Record{{ID: 760, Name: "Quận 1"}}, nil).
			Once()

		r, rec := newResolver(t, address.TierDistrict, lookup)
		r.Mount(ctx)
		r.SetParent(ctx, 79)
		r.Wait()
		require.NotEmpty(t, r.Snapshot().Options)

		r.SetParent(ctx, 0)
		r.Wait()

		assert.Empty(t, r.Snapshot().Options)
		assert.Empty(t, rec.last().Options)
	})
}

func TestResolver_LastIssuedWins(t *testing.T) {
	ctx := context.Background()
	lookup := mocks.NewMockLookuper(t)

	releaseA := make(chan struct{})
	lookup.EXPECT().Lookup(mock.Anything, districtReq(1)).
		RunAndReturn(func(context.Context, address.Request) ([]address.Record, error) {
			<-releaseA
			return []address.Record{{ID: 11, Name: "from A"}}, nil
		}).
		Once()
	lookup.EXPECT().Lookup(mock.Anything, districtReq(2)).
		Return([]address.Record{{ID: 22, Name: "from B"}}, nil).
		Once()

	r, rec := newResolver(t, address.TierDistrict, lookup)
	r.Mount(ctx)
	r.SetParent(ctx, 1)
	r.SetParent(ctx, 2)

	require.Eventually(t, func() bool {
		return !r.Snapshot().Loading
	}, time.Second, time.Millisecond)

	close(releaseA)
	r.Wait()

	want := []address.Option{{Value: 22, Label: "from B"}}
	assert.Equal(t, want, r.Snapshot().Options)
	for _, snap := range rec.all() {
		for _, opt := range snap.Options {
			assert.NotEqual(t, address.ID(11), opt.Value, "stale response was published")
		}
	}
}

func TestResolver_ClearDiscardsInflight(t *testing.T) {
	ctx := context.Background()
	lookup := mocks.NewMockLookuper(t)

	release := make(chan struct{})
	lookup.EXPECT().Lookup(mock.Anything, address.Request{Tier: address.TierWard, ParentID: 760}).
		RunAndReturn(func(context.Context, address.Request) ([]address.Record, error) {
			<-release
			return []address.Record{{ID: 26734, Name: "Bến Nghé"}}, nil
		}).
		Once()

	r, _ := newResolver(t, address.TierWard, lookup)
	r.Mount(ctx)
	r.SetParent(ctx, 760)
	r.SetParent(ctx, 0)

	close(release)
	r.Wait()

	snap := r.Snapshot()
	assert.Empty(t, snap.Options)
	assert.False(t, snap.Loading)
}

func TestResolver_FetchError(t *testing.T) {
	ctx := context.Background()
	lookup := mocks.NewMockLookuper(t)
	boom := errors.New("connection refused")

	lookup.EXPECT().Lookup(mock.Anything, districtReq(79)).
		Return([]address.Record{{ID: 760, Name: "Quận 1"}}, nil).
		Once()
	lookup.EXPECT().Lookup(mock.Anything, districtReq(1)).
		Return(nil, boom).
		Once()
	lookup.EXPECT().Lookup(mock.Anything, districtReq(48)).
		Return([]address.Record{{ID: 490, Name: "Liên Chiểu"}}, nil).
		Once()

	r, _ := newResolver(t, address.TierDistrict, lookup)
	r.Mount(ctx)
	r.SetParent(ctx, 79)
	r.Wait()

	r.SetParent(ctx, 1)
	r.Wait()

	snap := r.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []address.Option{{Value: 760, Label: "Quận 1"}}, snap.Options, "previous list is kept")
	require.Error(t, snap.Err)
	assert.ErrorIs(t, snap.Err, address.ErrFetch)
	assert.ErrorIs(t, snap.Err, boom)

	var fetchErr *address.FetchError
	require.ErrorAs(t, snap.Err, &fetchErr)
	assert.Equal(t, address.TierDistrict, fetchErr.Tier)
	assert.Equal(t, address.ID(1), fetchErr.Parent)

	t.Run("resolver stays usable", func(t *testing.T) {
		r.SetParent(ctx, 48)
		r.Wait()

		snap := r.Snapshot()
		assert.NoError(t, snap.Err)
		assert.Equal(t, []address.Option{{Value: 490, Label: "Liên Chiểu"}}, snap.Options)
	})
}

func TestResolver_Refresh(t *testing.T) {
	ctx := context.Background()
	lookup := mocks.NewMockLookuper(t)
	lookup.EXPECT().Lookup(mock.Anything, address.Request{Tier: address.TierProvince}).
		Return(nil, errors.New("timeout")).
		Once()
	lookup.EXPECT().Lookup(mock.Anything, address.Request{Tier: address.TierProvince}).
		Return([]address.Record{{ID: 1, Name: "Hà Nội"}}, nil).
		Once()

	r, _ := newResolver(t, address.TierProvince, lookup)

	r.Refresh(ctx)
	r.Wait()
	lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)

	r.Mount(ctx)
	r.Wait()
	assert.Error(t, r.Snapshot().Err)

	r.Refresh(ctx)
	r.Wait()
	snap := r.Snapshot()
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Options, 1)
}

func TestResolver_GenerationIncrements(t *testing.T) {
	ctx := context.Background()
	lookup := mocks.NewMockLookuper(t)
	lookup.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, nil)

	r, _ := newResolver(t, address.TierDistrict, lookup)
	r.Mount(ctx)
	first := r.Snapshot().Generation

	r.SetParent(ctx, 1)
	r.Wait()
	second := r.Snapshot().Generation

	r.SetParent(ctx, 0)
	third := r.Snapshot().Generation

	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("child without parent skips lookup", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		got, err := address.Resolve(ctx, lookup, address.TierWard, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
		lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	})

	t.Run("maps records", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, districtReq(48)).
			Return([]address.Record{{ID: 490, Name: "Liên Chiểu"}}, nil).
			Once()

		got, err := address.Resolve(ctx, lookup, address.TierDistrict, 48)
		require.NoError(t, err)
		assert.Equal(t, []address.Option{{Value: 490, Label: "Liên Chiểu"}}, got)
	})

	t.Run("wraps lookup errors", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		lookup.EXPECT().Lookup(mock.Anything, mock.Anything).Return(nil, errors.New("bad gateway")).Once()

		got, err := address.Resolve(ctx, lookup, address.TierProvince, 0)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, address.ErrFetch)
		assert.Contains(t, err.Error(), "province")
	})

	t.Run("unknown tier", func(t *testing.T) {
		lookup := mocks.NewMockLookuper(t)
		_, err := address.Resolve(ctx, lookup, address.Tier("street"), 0)
		assert.Error(t, err)
	})
}
