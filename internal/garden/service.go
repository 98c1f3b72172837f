// Package garden manages garden lifecycle and membership: creation with
// a pre-allocated plot grid, invite links, joins, and the snapshot read
// every client starts from.
package garden

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/happyharvest/garden/internal/catalog"
	"github.com/happyharvest/garden/internal/domain"
	"github.com/happyharvest/garden/internal/growth"
	"github.com/happyharvest/garden/internal/logger"
	"github.com/happyharvest/garden/internal/repository"
)

// Feed is the realtime surface the snapshot read attaches callers to
type Feed interface {
	Subscribe(gardenID, userID string)
	ConnectionCount(userID string) int
}

// PlotView is a plot together with its derived growth state
type PlotView struct {
	domain.Plot
	ProgressPercent float64 `json:"progress_percent"`
	RemainingSec    int     `json:"remaining_sec"`
	NeedsWater      bool    `json:"needs_water"`
}

// TreeView is a tree with its derived readiness
type TreeView struct {
	domain.Tree
	Ready     bool    `json:"ready"`
	HoursLeft float64 `json:"hours_left"`
}

// AnimalView is an animal with its derived feedability
type AnimalView struct {
	domain.Animal
	Feedable  bool    `json:"feedable"`
	HoursLeft float64 `json:"hours_left"`
}

// BuildingView is a building with its derived production state
type BuildingView struct {
	domain.Building
	DerivedStatus   domain.ProductionStatus `json:"derived_status"`
	ProgressPercent float64                 `json:"progress_percent"`
	RemainingSec    int                     `json:"remaining_sec"`
}

// Snapshot is the full derived state of a garden at read time
type Snapshot struct {
	Garden    *domain.Garden `json:"garden"`
	Plots     []PlotView     `json:"plots"`
	Trees     []TreeView     `json:"trees"`
	Animals   []AnimalView   `json:"animals"`
	Buildings []BuildingView `json:"buildings"`
}

// Service defines the garden management operations
type Service interface {
	Create(ctx context.Context, userID, name string) (*domain.Garden, error)
	Join(ctx context.Context, userID, inviteLink string) (string, error)
	GenerateInviteLink(ctx context.Context, userID, gardenID string) (string, error)
	Snapshot(ctx context.Context, userID, gardenID string) (*Snapshot, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Garden, error)

	IsMember(ctx context.Context, gardenID, userID string) (bool, error)
	IsOwner(ctx context.Context, gardenID, userID string) (bool, error)

	// CanWatch implements the realtime access check; members may watch.
	CanWatch(ctx context.Context, gardenID, userID string) (bool, error)
}

type service struct {
	gardens repository.Garden
	users   repository.User
	plots   repository.Plot
	trees   repository.Tree
	animals repository.Animal
	blds    repository.Building
	bonuses repository.Bonus
	catalog *catalog.Catalog
	feed    Feed
	cache   *membershipCache
	now     func() time.Time
}

// NewService creates a new garden service
func NewService(
	gardens repository.Garden,
	users repository.User,
	plots repository.Plot,
	trees repository.Tree,
	animals repository.Animal,
	blds repository.Building,
	bonuses repository.Bonus,
	cat *catalog.Catalog,
	feed Feed,
) Service {
	return &service{
		gardens: gardens,
		users:   users,
		plots:   plots,
		trees:   trees,
		animals: animals,
		blds:    blds,
		bonuses: bonuses,
		catalog: cat,
		feed:    feed,
		cache:   newMembershipCache(),
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID, name string) (*domain.Garden, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: garden name is required", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	g := &domain.Garden{
		ID:        uuid.New().String(),
		OwnerID:   userID,
		Name:      name,
		Width:     domain.InitialGardenWidth,
		Height:    domain.InitialGardenHeight,
		CreatedAt: s.now(),
	}

	// Create inserts the garden, the owner membership row and one empty
	// plot per cell in a single transaction.
	if err := s.gardens.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create garden: %w", err)
	}

	s.cache.Set(g.ID, userID, true)

	log.Info("Garden created", "garden_id", g.ID, "owner_id", userID,
		"width", g.Width, "height", g.Height)
	return g, nil
}

func (s *service) Join(ctx context.Context, userID, inviteLink string) (string, error) {
	log := logger.FromContext(ctx)

	gardenID, err := parseInviteLink(inviteLink)
	if err != nil {
		return "", err
	}

	if _, err := s.gardens.GetByID(ctx, gardenID); err != nil {
		return "", fmt.Errorf("failed to get garden: %w", err)
	}

	isMember, err := s.gardens.IsMember(ctx, gardenID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to check membership: %w", err)
	}
	if isMember {
		// Joining twice is fine; the link may be clicked again
		return gardenID, nil
	}

	if err := s.gardens.AddMember(ctx, gardenID, userID, domain.RoleMember); err != nil {
		return "", fmt.Errorf("failed to add member: %w", err)
	}

	s.cache.Set(gardenID, userID, true)

	log.Info("User joined garden", "garden_id", gardenID, "user_id", userID)
	return gardenID, nil
}

func (s *service) GenerateInviteLink(ctx context.Context, userID, gardenID string) (string, error) {
	g, err := s.gardens.GetByID(ctx, gardenID)
	if err != nil {
		return "", fmt.Errorf("failed to get garden: %w", err)
	}
	if g.OwnerID != userID {
		return "", fmt.Errorf("%w: only the owner can invite", domain.ErrNotOwner)
	}

	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	payload := gardenID + "|" + hex.EncodeToString(token)
	return base64.StdEncoding.EncodeToString([]byte(payload)), nil
}

// parseInviteLink decodes a base64 "gardenId|token" invite payload
func parseInviteLink(inviteLink string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(inviteLink)
	if err != nil {
		return "", fmt.Errorf("%w: invalid invite link", domain.ErrInvalidInput)
	}
	gardenID, _, ok := strings.Cut(string(decoded), "|")
	if !ok || gardenID == "" {
		return "", fmt.Errorf("%w: invalid invite link", domain.ErrInvalidInput)
	}
	return gardenID, nil
}

func (s *service) Snapshot(ctx context.Context, userID, gardenID string) (*Snapshot, error) {
	isMember, err := s.IsMember(ctx, gardenID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: not a garden member", domain.ErrNotMember)
	}

	g, err := s.gardens.GetByID(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get garden: %w", err)
	}

	now := s.now()

	multipliers, err := s.ownerMultipliers(ctx, g.OwnerID, now)
	if err != nil {
		return nil, err
	}

	plots, err := s.plots.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	plotViews := make([]PlotView, 0, len(plots))
	for _, p := range plots {
		plotViews = append(plotViews, s.derivePlot(p, multipliers, now))
	}

	trees, err := s.trees.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	treeViews := make([]TreeView, 0, len(trees))
	for _, t := range trees {
		tv := TreeView{Tree: t}
		if tt, err := s.catalog.Tree(t.TreeTypeID); err == nil {
			tv.Ready, tv.HoursLeft = growth.IntervalReady(t.LastHarvestedAt, tt.HarvestHours, now)
		}
		treeViews = append(treeViews, tv)
	}

	animals, err := s.animals.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	animalViews := make([]AnimalView, 0, len(animals))
	for _, a := range animals {
		av := AnimalView{Animal: a}
		if at, err := s.catalog.Animal(a.AnimalTypeID); err == nil {
			av.Feedable, av.HoursLeft = growth.IntervalReady(a.LastFedAt, at.FeedHours, now)
			// The guard dog is always feedable; feeding refreshes protection
			if a.AnimalTypeID == domain.DogAnimalTypeID {
				av.Feedable = true
			}
		}
		animalViews = append(animalViews, av)
	}

	buildings, err := s.blds.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	buildingViews := make([]BuildingView, 0, len(buildings))
	for _, b := range buildings {
		state := growth.DeriveProduction(b, now)
		buildingViews = append(buildingViews, BuildingView{
			Building:        b,
			DerivedStatus:   state.Status,
			ProgressPercent: state.ProgressPercent,
			RemainingSec:    int(state.Remaining.Seconds()),
		})
	}

	// Reading a garden is how clients start watching it. A subscription
	// only makes sense attached to a live connection; without one it
	// would outlive any socket and never be torn down.
	if s.feed != nil && s.feed.ConnectionCount(userID) > 0 {
		s.feed.Subscribe(gardenID, userID)
	}

	return &Snapshot{
		Garden:    g,
		Plots:     plotViews,
		Trees:     treeViews,
		Animals:   animalViews,
		Buildings: buildingViews,
	}, nil
}

func (s *service) derivePlot(p domain.Plot, multipliers growth.Multipliers, now time.Time) PlotView {
	view := PlotView{Plot: p}
	if p.Stage == domain.StageEmpty || p.PlantedAt == nil {
		return view
	}

	crop, err := s.catalog.Crop(p.PlantID)
	if err != nil {
		return view
	}

	result := growth.Derive(growth.Params{
		PlantedAt:     *p.PlantedAt,
		LastWateredAt: p.LastWateredAt,
		GrowTime:      time.Duration(crop.GrowTime) * time.Second,
		Multipliers:   multipliers,
	}, now)

	view.Stage = result.Stage
	view.ProgressPercent = result.ProgressPercent
	view.RemainingSec = int(result.Remaining.Seconds())
	view.NeedsWater = result.NeedsWater
	return view
}

// ownerMultipliers resolves the garden owner's active growth bonuses
func (s *service) ownerMultipliers(ctx context.Context, ownerID string, now time.Time) (growth.Multipliers, error) {
	if s.bonuses == nil {
		return growth.Multipliers{}, nil
	}
	m, err := s.bonuses.ActiveMultiplier(ctx, ownerID, now)
	if err != nil {
		return growth.Multipliers{}, fmt.Errorf("failed to get active bonus: %w", err)
	}
	return growth.Multipliers{InviteBonus: m}, nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]domain.Garden, error) {
	gardens, err := s.gardens.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gardens: %w", err)
	}
	return gardens, nil
}

func (s *service) IsMember(ctx context.Context, gardenID, userID string) (bool, error) {
	if cached, ok := s.cache.Get(gardenID, userID); ok {
		return cached, nil
	}

	isMember, err := s.gardens.IsMember(ctx, gardenID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	s.cache.Set(gardenID, userID, isMember)
	return isMember, nil
}

func (s *service) IsOwner(ctx context.Context, gardenID, userID string) (bool, error) {
	g, err := s.gardens.GetByID(ctx, gardenID)
	if err != nil {
		if errors.Is(err, domain.ErrGardenNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get garden: %w", err)
	}
	return g.OwnerID == userID, nil
}

func (s *service) CanWatch(ctx context.Context, gardenID, userID string) (bool, error) {
	return s.IsMember(ctx, gardenID, userID)
}
