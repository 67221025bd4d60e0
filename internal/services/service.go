package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/tokenclient"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/queue"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
	"github.com/babylonlabs-io/token-vault-ledger/internal/utils/keylock"
)

// globalConfigLock is the keylock key serialising initialize and owner updates.
const globalConfigLock = "global-config"

// EventBroadcaster receives every committed vault event.
type EventBroadcaster interface {
	Broadcast(ev *types.VaultEvent)
}

type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	token     tokenclient.TokenInterface
	publisher queue.Publisher
	feed      EventBroadcaster
	locks     *keylock.KeyLock
	now       func() time.Time
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	token tokenclient.TokenInterface,
	publisher queue.Publisher,
	feed EventBroadcaster,
) *Service {
	return &Service{
		cfg:       cfg,
		db:        db,
		token:     token,
		publisher: publisher,
		feed:      feed,
		locks:     keylock.New(),
		now:       time.Now,
	}
}

// emitEvent publishes a committed event and broadcasts it to the live feed.
// The operation already succeeded, so a publish failure is only logged.
func (s *Service) emitEvent(ctx context.Context, ev *types.VaultEvent) {
	log := log.Ctx(ctx).With().
		Str("event_id", ev.ID).
		Str("event_type", ev.Type.String()).
		Str("user", ev.User.String()).
		Logger()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Error().Err(err).Msg("Failed to publish vault event")
		}
	}
	if s.feed != nil {
		s.feed.Broadcast(ev)
	}

	log.Info().
		Uint64("amount", ev.Amount).
		Uint64("user_total_staked", ev.UserTotalStaked).
		Uint64("total_in_vault", ev.TotalInVault).
		Msg("Vault event emitted")
}
