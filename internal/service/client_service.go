package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

const recoveryPhraseWords = 12

// recoveryWordlist backs recovery phrase generation. Words are short,
// unambiguous and easy to transcribe.
var recoveryWordlist = []string{
	"able", "acid", "aged", "atom", "aunt", "bald", "barn", "bass",
	"bead", "bell", "bird", "blue", "boat", "bone", "book", "born",
	"both", "bulk", "calm", "card", "cave", "chip", "city", "clay",
	"coal", "coin", "cold", "cook", "corn", "crew", "crop", "dark",
	"dawn", "deal", "deep", "desk", "dice", "dirt", "dish", "door",
	"down", "drum", "dust", "east", "echo", "edge", "exit", "face",
	"farm", "fern", "fire", "fish", "flag", "foam", "fork", "fort",
	"gate", "gift", "glow", "goat", "gold", "gray", "grid", "gulf",
	"hall", "hand", "hawk", "heat", "herb", "hill", "home", "hook",
	"iron", "isle", "jade", "jazz", "judo", "keep", "kite", "lake",
	"lamp", "land", "leaf", "lime", "lion", "loft", "loop", "main",
	"mask", "mesh", "mild", "mint", "moon", "moss", "myth", "nest",
	"node", "noon", "oak", "opal", "open", "palm", "park", "peak",
	"pear", "pine", "pond", "pool", "port", "rain", "reef", "ring",
	"road", "rock", "root", "rose", "ruby", "sage", "salt", "sand",
	"seed", "silk", "snow", "star", "stem", "tide", "tree", "wolf",
}

// ClientServiceImpl implements ports.ClientService.
type ClientServiceImpl struct {
	clientRepo ports.ClientRepository
	walletSvc  ports.ClientWalletService
	hashSvc    ports.HashService
	log        zerolog.Logger
}

// NewClientService creates a new ClientServiceImpl.
func NewClientService(
	clientRepo ports.ClientRepository,
	walletSvc ports.ClientWalletService,
	hashSvc ports.HashService,
	log zerolog.Logger,
) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		walletSvc:  walletSvc,
		hashSvc:    hashSvc,
		log:        log,
	}
}

// Create registers a wallet holder, generates their recovery phrase and
// provisions one wallet per admin wallet. The recovery phrase is returned
// exactly once.
func (s *ClientServiceImpl) Create(ctx context.Context, in ports.CreateClientInput) (*ports.ClientRegistration, error) {
	if in.FirstName == "" || in.LastName == "" {
		return nil, apperror.Validation("first name and last name are required")
	}

	id, err := generateClientID()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate client id: %w", err))
	}

	phrase, err := generateRecoveryPhrase()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate recovery phrase: %w", err))
	}

	var pinHash string
	if in.PIN != "" {
		pinHash, err = s.hashSvc.Hash(in.PIN)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("hash pin: %w", err))
		}
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:             id,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		UserID:         in.UserID,
		PINHash:        pinHash,
		RecoveryPhrase: phrase,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create client: %w", err))
	}

	wallets, err := s.walletSvc.InitClientWallets(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("client_id", client.ID).
		Int("wallets", len(wallets)).
		Msg("client registered")

	return &ports.ClientRegistration{
		Client:         *client,
		RecoveryPhrase: phrase,
		Wallets:        wallets,
	}, nil
}

// GetByID returns one client.
func (s *ClientServiceImpl) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client: %w", err))
	}
	if client == nil {
		return nil, apperror.NotFound("client")
	}
	return client, nil
}

// List returns all clients.
func (s *ClientServiceImpl) List(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list clients: %w", err))
	}
	return clients, nil
}

// Update applies a partial update; nil fields are left untouched.
func (s *ClientServiceImpl) Update(ctx context.Context, id string, in ports.UpdateClientInput) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find client: %w", err))
	}
	if client == nil {
		return nil, apperror.NotFound("client")
	}

	if in.FirstName != nil {
		client.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		client.LastName = *in.LastName
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update client: %w", err))
	}
	return client, nil
}

// Delete removes a client.
func (s *ClientServiceImpl) Delete(ctx context.Context, id string) error {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find client: %w", err))
	}
	if client == nil {
		return apperror.NotFound("client")
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete client: %w", err))
	}

	s.log.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

// generateClientID produces a client identifier: "CLT_" + 12 hex chars.
func generateClientID() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "CLT_" + hex.EncodeToString(bytes), nil
}

// generateRecoveryPhrase draws 12 words from the wordlist.
func generateRecoveryPhrase() (string, error) {
	max := big.NewInt(int64(len(recoveryWordlist)))
	words := make([]string, recoveryPhraseWords)
	for i := range words {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		words[i] = recoveryWordlist[n.Int64()]
	}
	return strings.Join(words, " "), nil
}
