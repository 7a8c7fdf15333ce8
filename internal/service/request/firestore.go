package request

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const requestsCollection = "donation_requests"

// firestoreRequest maps to Firestore document structure.
type firestoreRequest struct {
	RequesterEmail    string    `firestore:"requester_email"`
	RequesterName     string    `firestore:"requester_name"`
	RecipientName     string    `firestore:"recipient_name"`
	RecipientDistrict string    `firestore:"recipient_district"`
	RecipientUpazila  string    `firestore:"recipient_upazila"`
	HospitalName      string    `firestore:"hospital_name"`
	FullAddress       string    `firestore:"full_address"`
	BloodGroup        string    `firestore:"blood_group"`
	DonationDate      string    `firestore:"donation_date"`
	DonationTime      string    `firestore:"donation_time"`
	RequestMessage    string    `firestore:"request_message"`
	Status            string    `firestore:"status"`
	DonorName         string    `firestore:"donor_name"`
	DonorEmail        string    `firestore:"donor_email"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
}

func (fr firestoreRequest) toRequest(id string) *Request {
	return &Request{
		ID:                id,
		RequesterEmail:    fr.RequesterEmail,
		RequesterName:     fr.RequesterName,
		RecipientName:     fr.RecipientName,
		RecipientDistrict: fr.RecipientDistrict,
		RecipientUpazila:  fr.RecipientUpazila,
		HospitalName:      fr.HospitalName,
		FullAddress:       fr.FullAddress,
		BloodGroup:        fr.BloodGroup,
		DonationDate:      fr.DonationDate,
		DonationTime:      fr.DonationTime,
		RequestMessage:    fr.RequestMessage,
		Status:            Status(fr.Status),
		DonorName:         fr.DonorName,
		DonorEmail:        fr.DonorEmail,
		CreatedAt:         fr.CreatedAt,
		UpdatedAt:         fr.UpdatedAt,
	}
}

// FirestoreStore implements Store using Firestore with transactions for every
// compare-and-set write.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Create persists a new pending request under a fresh UUID.
func (s *FirestoreStore) Create(ctx context.Context, params CreateParams) (*Request, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	fr := firestoreRequest{
		RequesterEmail:    strings.ToLower(strings.TrimSpace(params.RequesterEmail)),
		RequesterName:     params.RequesterName,
		RecipientName:     params.RecipientName,
		RecipientDistrict: params.RecipientDistrict,
		RecipientUpazila:  params.RecipientUpazila,
		HospitalName:      params.HospitalName,
		FullAddress:       params.FullAddress,
		BloodGroup:        params.BloodGroup,
		DonationDate:      params.DonationDate,
		DonationTime:      params.DonationTime,
		RequestMessage:    params.RequestMessage,
		Status:            string(StatusPending),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := s.client.Collection(requestsCollection).Doc(id).Set(ctx, fr); err != nil {
		return nil, err
	}
	return fr.toRequest(id), nil
}

// GetByID retrieves a request by ID.
func (s *FirestoreStore) GetByID(ctx context.Context, id string) (*Request, error) {
	doc, err := s.client.Collection(requestsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fr firestoreRequest
	if err := doc.DataTo(&fr); err != nil {
		return nil, err
	}
	return fr.toRequest(id), nil
}

// List returns requests matching the filter, newest first. Equality filters
// run server-side; ordering happens in memory to avoid composite index
// requirements at this collection size.
func (s *FirestoreStore) List(ctx context.Context, filter Filter) ([]*Request, error) {
	q := s.client.Collection(requestsCollection).Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.BloodGroup != "" {
		q = q.Where("blood_group", "==", filter.BloodGroup)
	}
	if filter.District != "" {
		q = q.Where("recipient_district", "==", filter.District)
	}
	if filter.Upazila != "" {
		q = q.Where("recipient_upazila", "==", filter.Upazila)
	}
	if filter.RequesterEmail != "" {
		q = q.Where("requester_email", "==", strings.ToLower(strings.TrimSpace(filter.RequesterEmail)))
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	requests := make([]*Request, 0, len(docs))
	for _, doc := range docs {
		var fr firestoreRequest
		if err := doc.DataTo(&fr); err != nil {
			return nil, err
		}
		requests = append(requests, fr.toRequest(doc.Ref.ID))
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// CompareAndSetStatus applies the status write transactionally: the write
// commits only if the stored status still equals expected. The donor fields
// and the status change land in the same transaction, so a claim is all or
// nothing.
func (s *FirestoreStore) CompareAndSetStatus(ctx context.Context, id string, expected, next Status, donor *Donor) (*Request, error) {
	docRef := s.client.Collection(requestsCollection).Doc(id)

	var result *Request

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fr firestoreRequest
		if err := doc.DataTo(&fr); err != nil {
			return err
		}

		if Status(fr.Status) != expected {
			return ErrConflict
		}

		fr.Status = string(next)
		if donor != nil {
			fr.DonorName = donor.Name
			fr.DonorEmail = strings.ToLower(strings.TrimSpace(donor.Email))
		}
		fr.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fr); err != nil {
			return err
		}
		result = fr.toRequest(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PatchDescriptive updates descriptive fields using a transaction for
// atomicity. Status and donor fields are untouched by construction.
func (s *FirestoreStore) PatchDescriptive(ctx context.Context, id string, params UpdateParams) (*Request, error) {
	docRef := s.client.Collection(requestsCollection).Doc(id)

	var result *Request

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fr firestoreRequest
		if err := doc.DataTo(&fr); err != nil {
			return err
		}

		applyDescriptive(&fr, params)
		fr.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fr); err != nil {
			return err
		}
		result = fr.toRequest(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyDescriptive(fr *firestoreRequest, params UpdateParams) {
	if params.RecipientName != nil {
		fr.RecipientName = *params.RecipientName
	}
	if params.RecipientDistrict != nil {
		fr.RecipientDistrict = *params.RecipientDistrict
	}
	if params.RecipientUpazila != nil {
		fr.RecipientUpazila = *params.RecipientUpazila
	}
	if params.HospitalName != nil {
		fr.HospitalName = *params.HospitalName
	}
	if params.FullAddress != nil {
		fr.FullAddress = *params.FullAddress
	}
	if params.BloodGroup != nil {
		fr.BloodGroup = *params.BloodGroup
	}
	if params.DonationDate != nil {
		fr.DonationDate = *params.DonationDate
	}
	if params.DonationTime != nil {
		fr.DonationTime = *params.DonationTime
	}
	if params.RequestMessage != nil {
		fr.RequestMessage = *params.RequestMessage
	}
}

// Delete removes a request using a transaction to ensure it exists.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	docRef := s.client.Collection(requestsCollection).Doc(id)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
