package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/bnema/punchclock/internal/ports"
	"go.uber.org/zap"
)

// Service runs every rate and session operation as one load-mutate-save
// sequence over the state store. The sequence is serialized by a lock shared
// by every Service in the process that uses the same store.
type Service struct {
	store  ports.StateStore
	clock  ports.Clock
	logger *zap.Logger

	mu *sync.Mutex
}

var (
	storeLockRegistryMu sync.Mutex
	storeLockMap        = map[any]*sync.Mutex{}
)

// lockForStore keys file-backed stores by path, so two store values opened
// on the same file share one lock; other stores are keyed by identity.
func lockForStore(store ports.StateStore) *sync.Mutex {
	var key any
	switch {
	case store == nil:
		return &sync.Mutex{}
	case hasPath(store):
		key = "path:" + store.(pathStore).Path()
	case reflect.TypeOf(store).Comparable():
		key = store
	default:
		return &sync.Mutex{}
	}

	storeLockRegistryMu.Lock()
	defer storeLockRegistryMu.Unlock()

	if mu, ok := storeLockMap[key]; ok {
		return mu
	}

	mu := &sync.Mutex{}
	storeLockMap[key] = mu
	return mu
}

type pathStore interface {
	Path() string
}

func hasPath(store ports.StateStore) bool {
	located, ok := store.(pathStore)
	return ok && located.Path() != ""
}

func NewService(store ports.StateStore, clock ports.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
		mu:     lockForStore(store),
	}
}

func (s *Service) SetRate(ctx context.Context, cmd SetRateCommand) (RateResult, error) {
	role := domain.RoleName(strings.TrimSpace(string(cmd.Role)))

	var result RateResult
	err := s.update(ctx, func(state *domain.State) (bool, error) {
		change, err := state.Rates.Set(role, cmd.Rate)
		if err != nil {
			return false, err
		}

		result = RateResult{Role: role, Rate: cmd.Rate, Change: change}
		return true, nil
	})
	if err != nil {
		return RateResult{}, err
	}

	s.logger.Info("rate "+string(result.Change),
		zap.String("role", string(role)),
		zap.String("rate", cmd.Rate.String()),
	)

	return result, nil
}

func (s *Service) StartSession(ctx context.Context, cmd StartSessionCommand) (StartResult, error) {
	if err := cmd.Member.Validate(); err != nil {
		return StartResult{}, err
	}

	now := s.instant(cmd.Now)
	roles := domain.NormalizeRoles(cmd.Roles)

	var result StartResult
	err := s.update(ctx, func(state *domain.State) (bool, error) {
		if err := state.Sessions.Start(cmd.Member, now); err != nil {
			return false, err
		}

		result = StartResult{
			Member:    cmd.Member,
			StartedAt: now,
			Rate:      state.Rates.Resolve(roles),
		}
		return true, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyActive) {
			s.logger.Warn("double start attempt", zap.String("member", string(cmd.Member)))
		}
		return StartResult{}, err
	}

	s.logger.Info("session started",
		zap.String("member", string(cmd.Member)),
		zap.Time("started_at", now),
		zap.String("rate", result.Rate.Rate.String()),
		zap.String("role", string(result.Rate.Role)),
		zap.Bool("rate_matched", result.Rate.Matched),
	)

	return result, nil
}

// EndSession settles the member's session at the rate their roles resolve to
// now. On ErrDataIntegrity the session is still closed and the returned
// result carries zero pay.
func (s *Service) EndSession(ctx context.Context, cmd EndSessionCommand) (EndResult, error) {
	if err := cmd.Member.Validate(); err != nil {
		return EndResult{}, err
	}

	now := s.instant(cmd.Now)
	roles := domain.NormalizeRoles(cmd.Roles)

	var result EndResult
	err := s.update(ctx, func(state *domain.State) (bool, error) {
		if !state.Sessions.IsActive(cmd.Member) {
			return false, fmt.Errorf("%w: member %s is not clocked in", domain.ErrNotActive, cmd.Member)
		}

		resolution := state.Rates.Resolve(roles)
		settlement, err := state.Sessions.End(cmd.Member, now, resolution.Rate)
		result = EndResult{Settlement: settlement, Rate: resolution}
		if err != nil {
			return errors.Is(err, domain.ErrDataIntegrity), err
		}

		return true, nil
	})
	switch {
	case errors.Is(err, domain.ErrNotActive):
		s.logger.Warn("end without start attempt", zap.String("member", string(cmd.Member)))
		return EndResult{}, err
	case errors.Is(err, domain.ErrDataIntegrity) && !errors.Is(err, domain.ErrStorage):
		s.logger.Error("session closed with inconsistent start time",
			zap.String("member", string(cmd.Member)),
			zap.Error(err),
		)
		return result, err
	case err != nil:
		return EndResult{}, err
	}

	s.logger.Info("session ended",
		zap.String("member", string(cmd.Member)),
		zap.Duration("elapsed", result.Settlement.Elapsed),
		zap.String("rate", result.Rate.Rate.String()),
		zap.String("pay", result.Settlement.Pay.StringFixed(domain.PayPlaces)),
	)

	return result, nil
}

func (s *Service) SessionStatus(ctx context.Context, member domain.MemberID) (SessionStatus, error) {
	if err := member.Validate(); err != nil {
		return SessionStatus{}, err
	}

	now := s.instant(time.Time{})
	status := SessionStatus{Member: member}
	err := s.view(ctx, func(state domain.State) error {
		session, ok := state.Sessions[member]
		if !ok {
			return nil
		}

		status.Active = true
		status.StartedAt = session.StartedAt
		if session.Valid() && now.After(session.StartedAt) {
			status.Elapsed = now.Sub(session.StartedAt)
		}
		return nil
	})
	if err != nil {
		return SessionStatus{}, err
	}

	return status, nil
}

func (s *Service) ResolveRate(ctx context.Context, roles []domain.RoleName) (domain.RateResolution, error) {
	normalized := domain.NormalizeRoles(roles)

	var resolution domain.RateResolution
	err := s.view(ctx, func(state domain.State) error {
		resolution = state.Rates.Resolve(normalized)
		return nil
	})
	if err != nil {
		return domain.RateResolution{}, err
	}

	return resolution, nil
}

func (s *Service) Board(ctx context.Context) (Board, error) {
	board := Board{Now: s.instant(time.Time{})}
	err := s.view(ctx, func(state domain.State) error {
		board.Rates = state.Rates.Sorted()
		board.Sessions = state.Sessions.Sorted()
		return nil
	})
	if err != nil {
		return Board{}, err
	}

	return board, nil
}

func (s *Service) instant(at time.Time) time.Time {
	if at.IsZero() {
		at = s.clock.Now()
	}

	return domain.NormalizeInstant(at)
}

// update holds the lock across load, mutate and save. mutate reports whether
// the state must be written back; its error is returned either way.
func (s *Service) update(ctx context.Context, mutate func(state *domain.State) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	save, mutateErr := mutate(&state)
	if !save {
		return mutateErr
	}

	if err := s.store.Save(ctx, state); err != nil {
		saveErr := fmt.Errorf("%w: save state: %w", domain.ErrStorage, err)
		s.logger.Error("state save failed", zap.Error(err))
		return errors.Join(saveErr, mutateErr)
	}

	return mutateErr
}

func (s *Service) view(ctx context.Context, read func(state domain.State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}

	return read(state)
}

func (s *Service) load(ctx context.Context) (domain.State, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("state load failed", zap.Error(err))
		return domain.State{}, fmt.Errorf("%w: load state: %w", domain.ErrStorage, err)
	}
	state.ApplyDefaults()

	return state, nil
}
