package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/qrsecrets/internal/crypto/domain"
	cryptoService "github.com/allisson/qrsecrets/internal/crypto/service"
	"github.com/allisson/qrsecrets/internal/keyring"
	secretsDomain "github.com/allisson/qrsecrets/internal/secrets/domain"
)

type keypairGenerator func() (cryptoDomain.PublicKey, *cryptoDomain.PrivateKey, error)

// identityStore loads and lazily creates identity keypairs. Records are cached by
// keyring name; they hold only public and sealed material.
type identityStore struct {
	keyring keyring.Keyring
	keeper  cryptoService.KMSKeeper
	group   singleflight.Group
	cache   sync.Map
}

func newIdentityStore(kr keyring.Keyring, keeper cryptoService.KMSKeeper) *identityStore {
	return &identityStore{keyring: kr, keeper: keeper}
}

// load returns the identity of kind for algorithm or ErrIdentityNotFound.
func (s *identityStore) load(
	ctx context.Context,
	kind secretsDomain.IdentityKind,
	algorithm string,
) (*secretsDomain.Identity, error) {
	name := secretsDomain.IdentityKeyName(kind, algorithm)
	if v, ok := s.cache.Load(name); ok {
		return v.(*secretsDomain.Identity), nil
	}

	b, err := s.keyring.Get(ctx, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", secretsDomain.ErrIdentityNotFound, name)
		}
		return nil, err
	}

	identity, err := secretsDomain.ParseIdentity(b)
	if err != nil {
		return nil, err
	}
	if identity.Kind != kind || identity.Algorithm != algorithm {
		return nil, fmt.Errorf("%w: identity %s holds a %s %s key",
			secretsDomain.ErrInvalidEnvelope, name, identity.Kind, identity.Algorithm)
	}

	actual, _ := s.cache.LoadOrStore(name, identity)
	return actual.(*secretsDomain.Identity), nil
}

// ensure returns the identity of kind for algorithm, generating it on first use.
// Concurrent callers share a single creation.
func (s *identityStore) ensure(
	ctx context.Context,
	kind secretsDomain.IdentityKind,
	algorithm string,
	generate keypairGenerator,
) (*secretsDomain.Identity, error) {
	identity, err := s.load(ctx, kind, algorithm)
	if !errors.Is(err, secretsDomain.ErrIdentityNotFound) {
		return identity, err
	}

	name := secretsDomain.IdentityKeyName(kind, algorithm)
	v, err, _ := s.group.Do(name, func() (any, error) {
		// Detached from the cancellation of whichever caller got here first.
		ctx := context.WithoutCancel(ctx)

		identity, err := s.load(ctx, kind, algorithm)
		if !errors.Is(err, secretsDomain.ErrIdentityNotFound) {
			return identity, err
		}
		return s.create(ctx, name, kind, algorithm, generate)
	})
	if err != nil {
		return nil, err
	}
	return v.(*secretsDomain.Identity), nil
}

func (s *identityStore) create(
	ctx context.Context,
	name string,
	kind secretsDomain.IdentityKind,
	algorithm string,
	generate keypairGenerator,
) (*secretsDomain.Identity, error) {
	pk, sk, err := generate()
	if err != nil {
		return nil, err
	}
	defer sk.Destroy()

	if pk.Algorithm != algorithm || sk.Algorithm() != algorithm {
		return nil, fmt.Errorf("%w: generated %s key for %s identity", cryptoDomain.ErrInternal, pk.Algorithm, algorithm)
	}

	sealed, err := s.keeper.Encrypt(ctx, sk.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to seal identity key: %w", err)
	}

	identity := &secretsDomain.Identity{
		ID:               uuid.Must(uuid.NewV7()),
		Kind:             kind,
		Algorithm:        algorithm,
		PublicKey:        pk.Key,
		SealedPrivateKey: sealed,
		CreatedAt:        time.Now().UTC(),
	}

	b, err := identity.Marshal()
	if err != nil {
		return nil, err
	}
	if err := s.keyring.Put(ctx, name, b); err != nil {
		return nil, err
	}

	s.cache.Store(name, identity)
	return identity, nil
}

// privateKey unseals the private half of identity. The caller owns the key and must
// destroy it.
func (s *identityStore) privateKey(
	ctx context.Context,
	identity *secretsDomain.Identity,
) (*cryptoDomain.PrivateKey, error) {
	b, err := s.keeper.Decrypt(ctx, identity.SealedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal identity key: %w", err)
	}
	return cryptoDomain.NewPrivateKey(identity.Algorithm, b), nil
}
