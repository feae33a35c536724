package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/repository"
)

// Persisted key names, kept compatible with the web client's local storage.
const (
	KeyUserID    = "userId"
	KeyUserType  = "userType"
	KeyUserName  = "userName"
	KeyUserEmail = "userEmail"
)

var (
	ErrNoIdentity      = errors.New("no session identity")
	ErrInvalidUserType = errors.New("invalid user type")
)

// Origin says where a resolved identity came from.
type Origin int

const (
	OriginNone Origin = iota
	OriginLink
	OriginFlags
	OriginStored
	OriginManual
)

func (o Origin) String() string {
	switch o {
	case OriginLink:
		return "link"
	case OriginFlags:
		return "flags"
	case OriginStored:
		return "stored"
	case OriginManual:
		return "manual"
	default:
		return "none"
	}
}

// Explicit reports whether the identity was handed to this run rather than
// read back from storage. The backend is told onboarding starts for these.
func (o Origin) Explicit() bool {
	return o == OriginLink || o == OriginFlags || o == OriginManual
}

// Source carries the command-line inputs an identity may come from.
type Source struct {
	URL      string
	UserID   string
	UserType string
}

// Resolved is an identity plus where it was found.
type Resolved struct {
	Identity domain.Identity
	Origin   Origin
}

// Store resolves and persists the session identity on a LocalStore.
type Store struct {
	kv     repository.LocalStore
	logger *zap.Logger
}

func NewStore(kv repository.LocalStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger.Named("session")}
}

// ParseLink extracts user_id and user_type from an onboarding link. A bare
// query string ("user_id=..&user_type=..") is accepted too.
func ParseLink(link string) (userID, userType string, err error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", "", nil
	}
	var q url.Values
	if strings.Contains(link, "://") || strings.HasPrefix(link, "/") {
		u, perr := url.Parse(link)
		if perr != nil {
			return "", "", fmt.Errorf("parsing onboarding link: %w", perr)
		}
		q = u.Query()
	} else {
		q, err = url.ParseQuery(strings.TrimPrefix(link, "?"))
		if err != nil {
			return "", "", fmt.Errorf("parsing onboarding link: %w", err)
		}
	}
	return strings.TrimSpace(q.Get("user_id")), strings.TrimSpace(q.Get("user_type")), nil
}

// Resolve picks the session identity: the link first, then the flags, then
// the persisted keys. Explicit identities are persisted so later runs find
// them. ErrNoIdentity means the caller must ask the user.
func (s *Store) Resolve(ctx context.Context, src Source) (Resolved, error) {
	linkID, linkType, err := ParseLink(src.URL)
	if err != nil {
		return Resolved{}, err
	}

	candidates := []struct {
		id, typ string
		origin  Origin
	}{
		{linkID, linkType, OriginLink},
		{strings.TrimSpace(src.UserID), strings.TrimSpace(src.UserType), OriginFlags},
	}
	for _, c := range candidates {
		if c.id == "" || c.typ == "" {
			continue
		}
		t, err := domain.ParseUserType(c.typ)
		if err != nil {
			return Resolved{}, fmt.Errorf("%s identity: %w: %q", c.origin, ErrInvalidUserType, c.typ)
		}
		id := domain.Identity{UserID: c.id, UserType: t}
		s.enrich(ctx, &id)
		if err := s.Remember(ctx, id); err != nil {
			return Resolved{}, err
		}
		s.logger.Info("identity resolved", zap.String("origin", c.origin.String()),
			zap.String("user_id", id.UserID), zap.String("user_type", string(id.UserType)))
		return Resolved{Identity: id, Origin: c.origin}, nil
	}

	id, err := s.Stored(ctx)
	if err != nil {
		return Resolved{}, err
	}
	s.logger.Debug("identity resolved", zap.String("origin", OriginStored.String()),
		zap.String("user_id", id.UserID))
	return Resolved{Identity: id, Origin: OriginStored}, nil
}

// Stored reads the persisted identity. A missing or unparseable pair is
// reported as ErrNoIdentity.
func (s *Store) Stored(ctx context.Context) (domain.Identity, error) {
	userID, err := s.get(ctx, KeyUserID)
	if err != nil {
		return domain.Identity{}, err
	}
	rawType, err := s.get(ctx, KeyUserType)
	if err != nil {
		return domain.Identity{}, err
	}
	if userID == "" || rawType == "" {
		return domain.Identity{}, ErrNoIdentity
	}
	t, err := domain.ParseUserType(rawType)
	if err != nil {
		s.logger.Warn("ignoring stored identity with bad user type", zap.String("user_type", rawType))
		return domain.Identity{}, ErrNoIdentity
	}
	id := domain.Identity{UserID: userID, UserType: t}
	s.enrich(ctx, &id)
	return id, nil
}

// enrich fills the name and email from storage when they belong to the same
// user. Read failures leave them empty.
func (s *Store) enrich(ctx context.Context, id *domain.Identity) {
	stored, _ := s.get(ctx, KeyUserID)
	if stored != id.UserID {
		return
	}
	id.Name, _ = s.get(ctx, KeyUserName)
	id.Email, _ = s.get(ctx, KeyUserEmail)
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading session: %w", err)
	}
	return v, nil
}

// Remember persists id. Switching to another user drops the previous user's
// name and email.
func (s *Store) Remember(ctx context.Context, id domain.Identity) error {
	if !id.Valid() {
		return fmt.Errorf("remember: %w", ErrNoIdentity)
	}
	prev, err := s.get(ctx, KeyUserID)
	if err != nil {
		return err
	}
	if prev != "" && prev != id.UserID {
		if err := s.kv.Delete(ctx, KeyUserName, KeyUserEmail); err != nil {
			return fmt.Errorf("clearing previous user: %w", err)
		}
	}
	values := map[string]string{
		KeyUserID:   id.UserID,
		KeyUserType: string(id.UserType),
	}
	if id.Name != "" {
		values[KeyUserName] = id.Name
	}
	if id.Email != "" {
		values[KeyUserEmail] = id.Email
	}
	if err := s.kv.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// SaveName persists the display name captured by the name prompt.
func (s *Store) SaveName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if err := s.kv.Set(ctx, KeyUserName, name); err != nil {
		return fmt.Errorf("persisting name: %w", err)
	}
	return nil
}

// Clear forgets the persisted identity.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUserID, KeyUserType, KeyUserName, KeyUserEmail); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}
