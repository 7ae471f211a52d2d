package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenplan/planner/internal/auth"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/store"
)

type fakeRooms struct {
	live   map[string]json.RawMessage
	closed []string
}

func (f *fakeRooms) LiveDocument(planID string) (json.RawMessage, bool) {
	doc, ok := f.live[planID]
	return doc, ok
}

func (f *fakeRooms) CloseRoom(planID string) { f.closed = append(f.closed, planID) }

type fixture struct {
	svc    *Service
	rooms  *fakeRooms
	tokens *auth.Service
	router *mux.Router
}

func newFixture() *fixture {
	tokens := auth.NewService("secret")
	svc := NewService(store.NewMemoryStore(), tokens, document.Canvas{Width: 500, Height: 300})
	rooms := &fakeRooms{live: map[string]json.RawMessage{}}
	svc.SetRooms(rooms)

	r := mux.NewRouter()
	NewHandler(svc).Mount(r.PathPrefix("/api").Subrouter(), tokens)
	return &fixture{svc: svc, rooms: rooms, tokens: tokens, router: r}
}

func (f *fixture) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) create(t *testing.T, name string) Created {
	t.Helper()
	rec := f.do("POST", "/api/plans", "", []byte(`{"name":"`+name+`"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c Created
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	return c
}

func TestCreateSeedsEmptyDocument(t *testing.T) {
	f := newFixture()
	c := f.create(t, "Front yard")
	assert.Equal(t, auth.RoleEdit, c.Share.Grant.Role)

	rec := f.do("GET", "/api/plans/"+c.Plan.ID+"/document", c.Share.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := document.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c.Plan.ID, doc.Project.ID)
	assert.Equal(t, "Front yard", doc.Project.Name)
	assert.Equal(t, document.Canvas{Width: 500, Height: 300}, doc.Project.Canvas)
	assert.Empty(t, doc.Objects)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/plans", "", []byte(`{}`)).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/plans", "", []byte(`{"name":"x","canvas":{"width":0,"height":1}}`)).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("POST", "/api/plans", "", []byte(`nope`)).Code)
}

func TestPutDocument(t *testing.T) {
	f := newFixture()
	c := f.create(t, "Patio")

	doc := document.NewSampleDocument(c.Plan.ID)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := f.do("PUT", "/api/plans/"+c.Plan.ID+"/document", c.Share.Token, data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct{ Version int }
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 2, res.Version)

	got, err := f.svc.LatestDocument(context.Background(), c.Plan.ID)
	require.NoError(t, err)
	parsed, err := document.Parse(got)
	require.NoError(t, err)
	assert.Len(t, parsed.Objects, len(doc.Objects))
}

func TestPutDocumentRejects(t *testing.T) {
	f := newFixture()
	c := f.create(t, "Patio")
	other := document.NewSampleDocument("plan_other")
	wrongID, err := json.Marshal(other)
	require.NoError(t, err)

	path := "/api/plans/" + c.Plan.ID + "/document"
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", path, c.Share.Token, []byte(`{"objects":[{"kind":"polygon","data":{"points":[]}}]}`)).Code)
	assert.Equal(t, http.StatusBadRequest, f.do("PUT", path, c.Share.Token, wrongID).Code)

	view, err := f.tokens.Issue(c.Plan.ID, auth.RoleView, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, f.do("PUT", path, view.Token, wrongID).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do("PUT", path, "", wrongID).Code)
}

func TestLiveRoomTakesPrecedence(t *testing.T) {
	f := newFixture()
	c := f.create(t, "Orchard")
	f.rooms.live[c.Plan.ID] = json.RawMessage(`{"live":true}`)

	rec := f.do("GET", "/api/plans/"+c.Plan.ID+"/document", c.Share.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"live":true}`, rec.Body.String())

	data, err := json.Marshal(document.NewSampleDocument(c.Plan.ID))
	require.NoError(t, err)
	rec = f.do("PUT", "/api/plans/"+c.Plan.ID+"/document", c.Share.Token, data)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeletePlan(t *testing.T) {
	f := newFixture()
	c := f.create(t, "Shed")

	rec := f.do("DELETE", "/api/plans/"+c.Plan.ID, c.Share.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{c.Plan.ID}, f.rooms.closed)

	rec = f.do("GET", "/api/plans/"+c.Plan.ID, c.Share.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPlans(t *testing.T) {
	f := newFixture()
	f.create(t, "One")
	f.create(t, "Two")

	rec := f.do("GET", "/api/plans", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []store.Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plans))
	assert.Len(t, plans, 2)
}

func TestShareRoute(t *testing.T) {
	f := newFixture()
	c := f.create(t, "Pond")

	rec := f.do("POST", "/api/plans/"+c.Plan.ID+"/share", c.Share.Token, []byte(`{"role":"view"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var res auth.ShareResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))

	assert.Equal(t, http.StatusOK, f.do("GET", "/api/plans/"+c.Plan.ID, res.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do("DELETE", "/api/plans/"+c.Plan.ID, res.Token, nil).Code)
}
