package garden

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/happyharvest/garden/internal/catalog"
	"github.com/happyharvest/garden/internal/domain"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.Crop{{ID: "carrot", Name: "Carrot", SeedCost: 10, GrowTime: 3600, Yield: 25, XP: 5}},
		[]catalog.AnimalType{
			{ID: "chicken", Name: "Chicken", Cost: 100, FeedHours: 6, Production: &catalog.Production{Item: "coin", Quantity: 15}},
			{ID: "dog", Name: "Guard Dog", Cost: 300, FeedHours: 24},
		},
		[]catalog.TreeType{{ID: "apple", Name: "Apple Tree", Cost: 200, HarvestHours: 12, Harvest: catalog.TreeHarvest{Coins: 40}}},
		[]catalog.BuildingType{{ID: "barn", Name: "Barn", Cost: 500, SpecialType: catalog.SpecialTypeStorage, StorageBonus: 50}},
		nil,
	)
}

type serviceFixture struct {
	gardens *MockGardenRepository
	users   *MockUserRepository
	plots   *MockPlotRepository
	trees   *MockTreeRepository
	animals *MockAnimalRepository
	blds    *MockBuildingRepository
	bonuses *MockBonusRepository
	feed    *fakeFeed
	svc     Service
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		gardens: new(MockGardenRepository),
		users:   new(MockUserRepository),
		plots:   new(MockPlotRepository),
		trees:   new(MockTreeRepository),
		animals: new(MockAnimalRepository),
		blds:    new(MockBuildingRepository),
		bonuses: new(MockBonusRepository),
		feed:    &fakeFeed{},
	}
	f.svc = NewService(f.gardens, f.users, f.plots, f.trees, f.animals, f.blds, f.bonuses, testCatalog(), f.feed)
	return f
}

func TestCreate(t *testing.T) {
	t.Run("creates garden with initial grid", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, "owner").Return(&domain.User{ID: "owner"}, nil)
		f.gardens.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.Garden) bool {
			return g.OwnerID == "owner" &&
				g.Width == domain.InitialGardenWidth &&
				g.Height == domain.InitialGardenHeight
		})).Return(nil)

		g, err := f.svc.Create(context.Background(), "owner", "  My Farm  ")

		require.NoError(t, err)
		assert.Equal(t, "My Farm", g.Name)
		assert.NotEmpty(t, g.ID)
		f.gardens.AssertExpectations(t)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(context.Background(), "owner", "   ")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		_, err := f.svc.Create(context.Background(), "ghost", "Farm")

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestInviteLinkRoundTrip(t *testing.T) {
	f := newFixture()
	f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1", OwnerID: "owner"}, nil)

	link, err := f.svc.GenerateInviteLink(context.Background(), "owner", "g1")
	require.NoError(t, err)

	gardenID, err := parseInviteLink(link)
	require.NoError(t, err)
	assert.Equal(t, "g1", gardenID)
}

func TestGenerateInviteLink_NonOwnerRejected(t *testing.T) {
	f := newFixture()
	f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1", OwnerID: "owner"}, nil)

	_, err := f.svc.GenerateInviteLink(context.Background(), "visitor", "g1")

	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestJoin(t *testing.T) {
	link := base64.StdEncoding.EncodeToString([]byte("g1|sometoken"))

	t.Run("adds new member", func(t *testing.T) {
		f := newFixture()
		f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1"}, nil)
		f.gardens.On("IsMember", mock.Anything, "g1", "visitor").Return(false, nil)
		f.gardens.On("AddMember", mock.Anything, "g1", "visitor", domain.RoleMember).Return(nil)

		gardenID, err := f.svc.Join(context.Background(), "visitor", link)

		require.NoError(t, err)
		assert.Equal(t, "g1", gardenID)
		f.gardens.AssertExpectations(t)
	})

	t.Run("joining twice is a no-op", func(t *testing.T) {
		f := newFixture()
		f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1"}, nil)
		f.gardens.On("IsMember", mock.Anything, "g1", "visitor").Return(true, nil)

		gardenID, err := f.svc.Join(context.Background(), "visitor", link)

		require.NoError(t, err)
		assert.Equal(t, "g1", gardenID)
		f.gardens.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects garbage link", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Join(context.Background(), "visitor", "!!!not-base64!!!")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSnapshot(t *testing.T) {
	now := time.Now()
	planted := now.Add(-30 * time.Minute) // halfway through a 1h carrot

	t.Run("derives state and subscribes connected caller", func(t *testing.T) {
		f := newFixture()
		f.feed.connected = map[string]int{"member": 1}
		f.gardens.On("IsMember", mock.Anything, "g1", "member").Return(true, nil)
		f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1", OwnerID: "owner"}, nil)
		f.bonuses.On("ActiveMultiplier", mock.Anything, "owner", mock.Anything).Return(1.0, nil)
		f.plots.On("ListByGarden", mock.Anything, "g1").Return([]domain.Plot{
			{ID: "p1", GardenID: "g1", Stage: domain.StageSeed, PlantID: "carrot", PlantedAt: &planted, LastWateredAt: &planted},
			{ID: "p2", GardenID: "g1", Stage: domain.StageEmpty},
		}, nil)
		f.trees.On("ListByGarden", mock.Anything, "g1").Return([]domain.Tree{
			{ID: "t1", GardenID: "g1", TreeTypeID: "apple", LastHarvestedAt: now.Add(-13 * time.Hour)},
		}, nil)
		f.animals.On("ListByGarden", mock.Anything, "g1").Return([]domain.Animal{
			{ID: "a1", GardenID: "g1", AnimalTypeID: "dog", LastFedAt: now.Add(-time.Hour)},
		}, nil)
		f.blds.On("ListByGarden", mock.Anything, "g1").Return([]domain.Building{}, nil)

		snap, err := f.svc.Snapshot(context.Background(), "member", "g1")

		require.NoError(t, err)
		require.Len(t, snap.Plots, 2)
		assert.Equal(t, domain.StageSprout, snap.Plots[0].Stage, "30 of 60 minutes is 50%, sprout")
		assert.InDelta(t, 50, snap.Plots[0].ProgressPercent, 1)
		assert.Equal(t, domain.StageEmpty, snap.Plots[1].Stage)

		require.Len(t, snap.Trees, 1)
		assert.True(t, snap.Trees[0].Ready, "13h elapsed on a 12h tree")

		require.Len(t, snap.Animals, 1)
		assert.True(t, snap.Animals[0].Feedable, "dog is always feedable")

		assert.Equal(t, [][2]string{{"g1", "member"}}, f.feed.subs)
	})

	t.Run("caller without a connection is not subscribed", func(t *testing.T) {
		f := newFixture()
		f.gardens.On("IsMember", mock.Anything, "g1", "member").Return(true, nil)
		f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1", OwnerID: "owner"}, nil)
		f.bonuses.On("ActiveMultiplier", mock.Anything, "owner", mock.Anything).Return(1.0, nil)
		f.plots.On("ListByGarden", mock.Anything, "g1").Return([]domain.Plot{}, nil)
		f.trees.On("ListByGarden", mock.Anything, "g1").Return([]domain.Tree{}, nil)
		f.animals.On("ListByGarden", mock.Anything, "g1").Return([]domain.Animal{}, nil)
		f.blds.On("ListByGarden", mock.Anything, "g1").Return([]domain.Building{}, nil)

		_, err := f.svc.Snapshot(context.Background(), "member", "g1")

		require.NoError(t, err)
		assert.Empty(t, f.feed.subs)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		f := newFixture()
		f.gardens.On("IsMember", mock.Anything, "g1", "stranger").Return(false, nil)

		_, err := f.svc.Snapshot(context.Background(), "stranger", "g1")

		assert.ErrorIs(t, err, domain.ErrNotMember)
		assert.Empty(t, f.feed.subs)
	})

	t.Run("invite bonus halves remaining time", func(t *testing.T) {
		f := newFixture()
		f.gardens.On("IsMember", mock.Anything, "g1", "member").Return(true, nil)
		f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1", OwnerID: "owner"}, nil)
		f.bonuses.On("ActiveMultiplier", mock.Anything, "owner", mock.Anything).Return(2.0, nil)
		f.plots.On("ListByGarden", mock.Anything, "g1").Return([]domain.Plot{
			{ID: "p1", GardenID: "g1", Stage: domain.StageSeed, PlantID: "carrot", PlantedAt: &planted, LastWateredAt: &planted},
		}, nil)
		f.trees.On("ListByGarden", mock.Anything, "g1").Return([]domain.Tree{}, nil)
		f.animals.On("ListByGarden", mock.Anything, "g1").Return([]domain.Animal{}, nil)
		f.blds.On("ListByGarden", mock.Anything, "g1").Return([]domain.Building{}, nil)

		snap, err := f.svc.Snapshot(context.Background(), "member", "g1")

		require.NoError(t, err)
		// x2 multiplier: effective grow time 30m, 30m elapsed, done
		assert.Equal(t, domain.StageHarvest, snap.Plots[0].Stage)
	})
}

func TestIsMember_Caching(t *testing.T) {
	f := newFixture()
	f.gardens.On("IsMember", mock.Anything, "g1", "u1").Return(true, nil).Once()

	for i := 0; i < 3; i++ {
		ok, err := f.svc.IsMember(context.Background(), "g1", "u1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	f.gardens.AssertNumberOfCalls(t, "IsMember", 1)
}

func TestIsOwner(t *testing.T) {
	f := newFixture()
	f.gardens.On("GetByID", mock.Anything, "g1").Return(&domain.Garden{ID: "g1", OwnerID: "owner"}, nil)

	owner, err := f.svc.IsOwner(context.Background(), "g1", "owner")
	require.NoError(t, err)
	assert.True(t, owner)

	visitor, err := f.svc.IsOwner(context.Background(), "g1", "visitor")
	require.NoError(t, err)
	assert.False(t, visitor)
}
