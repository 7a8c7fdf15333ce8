package requests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/roktodan/roktodan-api/internal/identity"
	"github.com/roktodan/roktodan-api/internal/lifecycle"
	"github.com/roktodan/roktodan-api/internal/platform/auth"
	applog "github.com/roktodan/roktodan-api/internal/platform/logging"
	appmiddleware "github.com/roktodan/roktodan-api/internal/platform/middleware"
	"github.com/roktodan/roktodan-api/internal/platform/respond"
	profilesvc "github.com/roktodan/roktodan-api/internal/service/profile"
	requestsvc "github.com/roktodan/roktodan-api/internal/service/request"
)

type testEnv struct {
	router   chi.Router
	store    *requestsvc.MockRequestStore
	profiles *profilesvc.MockProfileService
	verifier *auth.MockVerifier
}

func newTestEnv() *testEnv {
	store := requestsvc.NewMockRequestStore()
	profiles := profilesvc.NewMockProfileService()
	verifier := &auth.MockVerifier{}

	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		respond.Recoverer(),
	)
	api := humachi.New(router, huma.DefaultConfig("RequestsTest", "test"))
	api.UseMiddleware(identity.NewMiddleware(api, identity.NewReconciler(verifier, profiles)))
	Register(api, store, lifecycle.NewEngine(store), "/v1")

	return &testEnv{router: router, store: store, profiles: profiles, verifier: verifier}
}

// actAs points the verifier at the given account and seeds its profile so the
// reconciled principal carries the wanted role and status.
func (e *testEnv) actAs(email string, role profilesvc.Role, status profilesvc.Status) {
	e.profiles.Seed(&profilesvc.Profile{Email: email, Name: "Test Person", Role: role, Status: status})
	e.verifier.User = &auth.ProviderUser{UID: "uid-" + email, Email: email, EmailVerified: true, Name: "Test Person"}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer test-token")
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) seedRequest(t *testing.T, owner string) *requestsvc.Request {
	t.Helper()
	r, err := e.store.Create(context.Background(), requestsvc.CreateParams{
		RequesterEmail:    owner,
		RequesterName:     "Owner",
		RecipientName:     "Patient",
		RecipientDistrict: "Dhaka",
		RecipientUpazila:  "Savar",
		HospitalName:      "DMCH",
		FullAddress:       "Secretariat Road",
		BloodGroup:        "O+",
		DonationDate:      "2026-09-12",
		DonationTime:      "14:30",
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return r
}

const createBody = `{
	"recipientName": "Patient",
	"recipientDistrict": "Dhaka",
	"recipientUpazila": "Savar",
	"hospitalName": "DMCH",
	"fullAddress": "Secretariat Road",
	"bloodGroup": "O+",
	"donationDate": "2026-09-12",
	"donationTime": "14:30",
	"requestMessage": "Urgent surgery"
}`

func TestCreateRequestSuccess(t *testing.T) {
	env := newTestEnv()
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodPost, "/requests", createBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if loc := resp.Header().Get("Location"); !strings.HasPrefix(loc, "/v1/requests/") {
		t.Errorf("expected Location under /v1/requests/, got %q", loc)
	}

	var created DonationRequest
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if created.Status != "pending" {
		t.Errorf("new request must be pending, got %s", created.Status)
	}
	if created.RequesterEmail != "owner@example.com" {
		t.Errorf("requester must come from the session, got %s", created.RequesterEmail)
	}
}

func TestCreateRequestVolunteerForbidden(t *testing.T) {
	env := newTestEnv()
	env.actAs("vol@example.com", profilesvc.RoleVolunteer, profilesvc.StatusActive)

	resp := env.do(http.MethodPost, "/requests", createBody)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateRequestBlockedForbidden(t *testing.T) {
	env := newTestEnv()
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusBlocked)

	resp := env.do(http.MethodPost, "/requests", createBody)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateRequestImpossibleDate(t *testing.T) {
	env := newTestEnv()
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	body := strings.Replace(createBody, "2026-09-12", "2026-02-30", 1)
	resp := env.do(http.MethodPost, "/requests", body)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for impossible date, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetRequestWithActions(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("donor@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests/"+req.ID, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var detail RequestDetail
	if err := json.Unmarshal(resp.Body.Bytes(), &detail); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if !detail.Actions.View {
		t.Error("stranger should still view")
	}
	if detail.Actions.Edit || detail.Actions.Delete {
		t.Errorf("stranger must not edit/delete: %+v", detail.Actions)
	}
	found := false
	for _, tr := range detail.Actions.Transitions {
		if tr == "inprogress" {
			found = true
		}
	}
	if !found {
		t.Errorf("stranger should see the claim transition, got %v", detail.Actions.Transitions)
	}
}

func TestGetRequestNotFound(t *testing.T) {
	env := newTestEnv()
	env.actAs("donor@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests/no-such-id", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestMyRequestsListsOwnOnly(t *testing.T) {
	env := newTestEnv()
	env.seedRequest(t, "owner@example.com")
	env.seedRequest(t, "owner@example.com")
	env.seedRequest(t, "other@example.com")
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests/my", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var data ListData
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("expected 2 own requests, got %d", data.Total)
	}
	for _, r := range data.Requests {
		if r.RequesterEmail != "owner@example.com" {
			t.Errorf("foreign request leaked into /requests/my: %s", r.RequesterEmail)
		}
	}
}

func TestListRequestsDonorForbidden(t *testing.T) {
	env := newTestEnv()
	env.actAs("donor@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests", "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for donor on full listing, got %d", resp.Code)
	}
}

func TestListRequestsVolunteerAllowed(t *testing.T) {
	env := newTestEnv()
	env.seedRequest(t, "owner@example.com")
	env.seedRequest(t, "other@example.com")
	env.actAs("vol@example.com", profilesvc.RoleVolunteer, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var data ListData
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Total != 2 {
		t.Errorf("expected 2 requests, got %d", data.Total)
	}
}

func TestListRequestsPagination(t *testing.T) {
	env := newTestEnv()
	for range 3 {
		env.seedRequest(t, "owner@example.com")
	}
	env.actAs("vol@example.com", profilesvc.RoleVolunteer, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests?limit=2", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var data ListData
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(data.Requests) != 2 || data.Total != 3 {
		t.Errorf("expected page of 2 with total 3, got %d/%d", len(data.Requests), data.Total)
	}
	if link := resp.Header().Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %q", link)
	}
}

func TestListRequestsBadCursor(t *testing.T) {
	env := newTestEnv()
	env.actAs("vol@example.com", profilesvc.RoleVolunteer, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests?cursor=%25%25not-base64", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOpenRequestsPendingOnly(t *testing.T) {
	env := newTestEnv()
	pending := env.seedRequest(t, "owner@example.com")
	claimed := env.seedRequest(t, "owner@example.com")
	if _, err := env.store.CompareAndSetStatus(context.Background(), claimed.ID,
		requestsvc.StatusPending, requestsvc.StatusInProgress,
		&requestsvc.Donor{Name: "Asha", Email: "asha@example.com"}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	env.actAs("donor@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodGet, "/requests/open", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var data ListData
	if err := json.Unmarshal(resp.Body.Bytes(), &data); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if data.Total != 1 || data.Requests[0].ID != pending.ID {
		t.Errorf("open listing must contain only pending requests, got %+v", data)
	}
}

func TestStatusUpdateClaim(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("donor@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID+"/status", `{"status":"inprogress"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated DonationRequest
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if updated.Status != "inprogress" || updated.DonorEmail != "donor@example.com" {
		t.Errorf("claim did not assign donor: status=%s donor=%s", updated.Status, updated.DonorEmail)
	}
}

func TestStatusUpdateSelfClaim(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID+"/status", `{"status":"inprogress"}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for self-claim, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStatusUpdateLostRace(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	if _, err := env.store.CompareAndSetStatus(context.Background(), req.ID,
		requestsvc.StatusPending, requestsvc.StatusInProgress,
		&requestsvc.Donor{Name: "First", Email: "first@example.com"}); err != nil {
		t.Fatalf("claim: %v", err)
	}
	env.actAs("second@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID+"/status", `{"status":"inprogress"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for lost claim race, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestStatusUpdateIllegalSkip(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("admin@example.com", profilesvc.RoleAdmin, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID+"/status", `{"status":"done"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for pending→done, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateRequestOwner(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID, `{"hospitalName":"Square Hospital"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated DonationRequest
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if updated.HospitalName != "Square Hospital" {
		t.Errorf("edit not applied, got %q", updated.HospitalName)
	}
}

func TestUpdateRequestVolunteerForbidden(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("vol@example.com", profilesvc.RoleVolunteer, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID, `{"hospitalName":"Square Hospital"}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for volunteer edit, got %d", resp.Code)
	}
}

func TestUpdateRequestEmptyBody(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("owner@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodPatch, "/requests/"+req.ID, `{}`)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty patch, got %d", resp.Code)
	}
}

func TestDeleteRequestAdmin(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("admin@example.com", profilesvc.RoleAdmin, profilesvc.StatusActive)

	resp := env.do(http.MethodDelete, "/requests/"+req.ID, "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}
	if _, err := env.store.GetByID(context.Background(), req.ID); err == nil {
		t.Error("request still present after delete")
	}
}

func TestDeleteRequestStrangerForbidden(t *testing.T) {
	env := newTestEnv()
	req := env.seedRequest(t, "owner@example.com")
	env.actAs("other@example.com", profilesvc.RoleDonor, profilesvc.StatusActive)

	resp := env.do(http.MethodDelete, "/requests/"+req.ID, "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestRequestsRequireAuth(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/requests/my", nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}
