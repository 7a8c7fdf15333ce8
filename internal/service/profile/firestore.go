package profile

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// firestoreProfile maps to Firestore document structure. The document ID is
// the normalized email.
type firestoreProfile struct {
	Name       string    `firestore:"name"`
	Avatar     string    `firestore:"avatar"`
	BloodGroup string    `firestore:"blood_group"`
	District   string    `firestore:"district"`
	Upazila    string    `firestore:"upazila"`
	Role       string    `firestore:"role"`
	Status     string    `firestore:"status"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

// FirestoreStore implements Service using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (fp firestoreProfile) toProfile(email string) *Profile {
	return &Profile{
		Email:      email,
		Name:       fp.Name,
		Avatar:     fp.Avatar,
		BloodGroup: fp.BloodGroup,
		District:   fp.District,
		Upazila:    fp.Upazila,
		Role:       Role(fp.Role),
		Status:     Status(fp.Status),
		CreatedAt:  fp.CreatedAt,
		UpdatedAt:  fp.UpdatedAt,
	}
}

// GetByEmail retrieves a profile by its email key.
func (s *FirestoreStore) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	email = normalizeEmail(email)
	doc, err := s.client.Collection(usersCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fp firestoreProfile
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toProfile(email), nil
}

// UpsertByEmail runs insert-if-absent-else-fetch inside a transaction so that
// concurrent first sign-ins coalesce onto a single record.
func (s *FirestoreStore) UpsertByEmail(ctx context.Context, email string, hints Hints) (*Profile, error) {
	email = normalizeEmail(email)
	docRef := s.client.Collection(usersCollection).Doc(email)
	now := time.Now().UTC()

	var result *Profile

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		var fp firestoreProfile
		if err == nil && doc.Exists() {
			if err := doc.DataTo(&fp); err != nil {
				return err
			}
			// Hints fill blanks only; stored values win.
			changed := false
			if fp.Name == "" && hints.Name != "" {
				fp.Name = hints.Name
				changed = true
			}
			if fp.Avatar == "" && hints.Avatar != "" {
				fp.Avatar = hints.Avatar
				changed = true
			}
			if changed {
				fp.UpdatedAt = now
				if err := tx.Set(docRef, fp); err != nil {
					return err
				}
			}
		} else {
			fp = firestoreProfile{
				Name:      hints.Name,
				Avatar:    hints.Avatar,
				Role:      string(RoleDonor),
				Status:    string(StatusActive),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Set(docRef, fp); err != nil {
				return err
			}
		}

		result = fp.toProfile(email)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Patch updates self-service fields using a transaction for atomicity.
func (s *FirestoreStore) Patch(ctx context.Context, email string, params UpdateParams) (*Profile, error) {
	email = normalizeEmail(email)
	docRef := s.client.Collection(usersCollection).Doc(email)

	var result *Profile

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return err
		}

		if params.Name != nil {
			fp.Name = strings.TrimSpace(*params.Name)
		}
		if params.Avatar != nil {
			fp.Avatar = strings.TrimSpace(*params.Avatar)
		}
		if params.BloodGroup != nil {
			fp.BloodGroup = *params.BloodGroup
		}
		if params.District != nil {
			fp.District = *params.District
		}
		if params.Upazila != nil {
			fp.Upazila = *params.Upazila
		}
		fp.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fp); err != nil {
			return err
		}
		result = fp.toProfile(email)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetRole changes the stored role inside a transaction.
func (s *FirestoreStore) SetRole(ctx context.Context, email string, role Role) (*Profile, error) {
	return s.setField(ctx, email, func(fp *firestoreProfile) {
		fp.Role = string(role)
	})
}

// SetStatus changes the stored status inside a transaction.
func (s *FirestoreStore) SetStatus(ctx context.Context, email string, st Status) (*Profile, error) {
	return s.setField(ctx, email, func(fp *firestoreProfile) {
		fp.Status = string(st)
	})
}

func (s *FirestoreStore) setField(ctx context.Context, email string, mutate func(*firestoreProfile)) (*Profile, error) {
	email = normalizeEmail(email)
	docRef := s.client.Collection(usersCollection).Doc(email)

	var result *Profile

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return err
		}
		mutate(&fp)
		fp.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fp); err != nil {
			return err
		}
		result = fp.toProfile(email)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns profiles matching the filter, newest first. Equality filters
// are applied server-side; ordering happens in memory to avoid composite
// index requirements at this collection size.
func (s *FirestoreStore) List(ctx context.Context, filter Filter) ([]*Profile, error) {
	q := s.client.Collection(usersCollection).Query
	if filter.Role != "" {
		q = q.Where("role", "==", string(filter.Role))
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.BloodGroup != "" {
		q = q.Where("blood_group", "==", filter.BloodGroup)
	}
	if filter.District != "" {
		q = q.Where("district", "==", filter.District)
	}
	if filter.Upazila != "" {
		q = q.Where("upazila", "==", filter.Upazila)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(docs))
	for _, doc := range docs {
		var fp firestoreProfile
		if err := doc.DataTo(&fp); err != nil {
			return nil, err
		}
		profiles = append(profiles, fp.toProfile(doc.Ref.ID))
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
