package router

import (
	"encoding/json"
	"net/http"
	"testing"

	"epicase/internal/epicase/history"
	"epicase/internal/epicase/model"
	"epicase/internal/epicase/repository"
	"epicase/internal/epicase/repository/mocks"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const recordID = "665f1c2e8a1b2c3d4e5f6071"

var caller = map[string]string{"x-user-id": "epi_1"}

func stored(log ...history.Entry) *model.Record {
	oid, _ := primitive.ObjectIDFromHex(recordID)
	rec := &model.Record{ID: oid, Kind: model.KindForma60, Revision: 2}
	rec.Fields = history.Fields{"fullName": "Ivan", "status": "new"}
	rec.History = append([]history.Entry{
		{EditedBy: "epi_1", Action: history.ActionCreated, Changes: history.Fields{}, PreviousData: history.Fields{}},
	}, log...)
	rec.PersistedEntries = len(rec.History)
	return rec
}

func decodeError(t *testing.T, body []byte) model.ErrorDetail {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	e := SetupServer(new(mocks.MockRecordRepository))
	rec := PerformRequest(e, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostRecord(t *testing.T) {
	apiPath := "/api/v1/records/forma60"

	t.Run("create record and return 201", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

		body := map[string]any{"fields": map[string]any{"fullName": "Ivan", "age": 30}}
		rec := PerformRequest(e, http.MethodPost, apiPath, body, caller)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp model.RecordResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Ivan", resp.Fields["fullName"])
		assert.Equal(t, "epi_1", resp.CreatedBy)
		repo.AssertExpectations(t)
	})

	t.Run("missing x-user-id returns 401", func(t *testing.T) {
		e := SetupServer(new(mocks.MockRecordRepository))
		rec := PerformRequest(e, http.MethodPost, apiPath, map[string]any{"fields": map[string]any{}}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		errBody := decodeError(t, rec.Body.Bytes())
		assert.NotEmpty(t, errBody.RequestID)
	})

	t.Run("missing fields returns 400", func(t *testing.T) {
		e := SetupServer(new(mocks.MockRecordRepository))
		rec := PerformRequest(e, http.MethodPost, apiPath, map[string]any{}, caller)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field returns 400", func(t *testing.T) {
		e := SetupServer(new(mocks.MockRecordRepository))
		body := map[string]any{"fields": map[string]any{"shoeSize": 42}}
		rec := PerformRequest(e, http.MethodPost, apiPath, body, caller)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec.Body.Bytes()).Message, "shoeSize")
	})

	t.Run("unknown kind returns 404", func(t *testing.T) {
		e := SetupServer(new(mocks.MockRecordRepository))
		rec := PerformRequest(e, http.MethodPost, "/api/v1/records/forma61", map[string]any{"fields": map[string]any{}}, caller)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPutRecord(t *testing.T) {
	apiPath := "/api/v1/records/forma60/" + recordID

	t.Run("update returns the changes", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		body := map[string]any{"fields": map[string]any{"status": "card_filling", "fullName": "Ivan"}}
		rec := PerformRequest(e, http.MethodPut, apiPath, body, caller)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.UpdateRecordResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Changed)
		assert.Equal(t, history.Fields{"status": "card_filling"}, resp.Changes)
	})

	t.Run("persistent revision conflict returns 409", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(repository.ErrRevisionConflict).Twice()

		body := map[string]any{"fields": map[string]any{"status": "completed"}}
		rec := PerformRequest(e, http.MethodPut, apiPath, body, caller)

		assert.Equal(t, http.StatusConflict, rec.Code)
		repo.AssertExpectations(t)
	})

	t.Run("malformed id returns 404", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, "nope", false).Return(nil, repository.ErrNotFound)

		rec := PerformRequest(e, http.MethodPut, "/api/v1/records/forma60/nope", map[string]any{"fields": map[string]any{}}, caller)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUndoRedoRoutes(t *testing.T) {
	t.Run("undo with nothing to undo returns 400", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()

		rec := PerformRequest(e, http.MethodPost, "/api/v1/records/forma60/"+recordID+"/undo", nil, caller)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.CodeInvalidOperation, decodeError(t, rec.Body.Bytes()).Code)
	})

	t.Run("undo reverts the last update", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		updated := history.Entry{
			EditedBy:     "epi_2",
			Action:       history.ActionUpdated,
			Changes:      history.Fields{"status": "new"},
			PreviousData: history.Fields{"status": "card_filling"},
		}
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(updated), nil).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		rec := PerformRequest(e, http.MethodPost, "/api/v1/records/forma60/"+recordID+"/undo", nil, caller)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.RecordResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "card_filling", resp.Fields["status"])
	})

	t.Run("redo without undo returns 400", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()

		rec := PerformRequest(e, http.MethodPost, "/api/v1/records/forma60/"+recordID+"/redo", nil, caller)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRestoreVersionRoute(t *testing.T) {
	apiPath := "/api/v1/records/forma60/" + recordID + "/restore-version"

	t.Run("created entry has no prior state and returns 422", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()

		rec := PerformRequest(e, http.MethodPost, apiPath, map[string]any{"historyIndex": 0}, caller)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, model.CodeNoPriorState, decodeError(t, rec.Body.Bytes()).Code)
	})

	t.Run("out of range returns 400", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()

		rec := PerformRequest(e, http.MethodPost, apiPath, map[string]any{"historyIndex": 5}, caller)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, model.CodeOutOfRange, decodeError(t, rec.Body.Bytes()).Code)
	})

	t.Run("missing historyIndex returns 400", func(t *testing.T) {
		e := SetupServer(new(mocks.MockRecordRepository))
		rec := PerformRequest(e, http.MethodPost, apiPath, map[string]any{}, caller)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHistoryRoutes(t *testing.T) {
	updated := history.Entry{
		EditedBy:     "epi_2",
		Action:       history.ActionUpdated,
		Changes:      history.Fields{"status": "new"},
		PreviousData: history.Fields{"status": "card_filling"},
	}

	t.Run("history lists entries newest first", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, true).Return(stored(updated), nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/records/forma60/"+recordID+"/history", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.HistoryResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TotalChanges)
		require.Len(t, resp.Timeline, 2)
		assert.Equal(t, "Changed: Status", resp.Timeline[0].Description)
		assert.Equal(t, "Record created", resp.Timeline[1].Description)
	})

	t.Run("compare requires an index", func(t *testing.T) {
		e := SetupServer(new(mocks.MockRecordRepository))
		rec := PerformRequest(e, http.MethodGet, "/api/v1/records/forma60/"+recordID+"/compare", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("compare shows what a restore would change", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, true).Return(stored(updated), nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/records/forma60/"+recordID+"/compare?index=1", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp model.CompareResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, map[string]history.FieldChange{"status": {From: "new", To: "card_filling"}}, resp.Modified)
	})
}

func TestDeleteAndRestoreRoutes(t *testing.T) {
	t.Run("delete returns 200", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, false).Return(stored(), nil).Once()
		repo.On("Save", mock.Anything, mock.MatchedBy(func(r *model.Record) bool { return r.IsDeleted })).Return(nil)

		rec := PerformRequest(e, http.MethodDelete, "/api/v1/records/forma60/"+recordID, nil, caller)
		assert.Equal(t, http.StatusOK, rec.Code)
		repo.AssertExpectations(t)
	})

	t.Run("restore of a live record returns 409", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("FindByID", mock.Anything, model.KindForma60, recordID, true).Return(stored(), nil).Once()

		rec := PerformRequest(e, http.MethodPost, "/api/v1/records/forma60/"+recordID+"/restore", nil, caller)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("list passes pagination", func(t *testing.T) {
		repo := new(mocks.MockRecordRepository)
		e := SetupServer(repo)
		repo.On("List", mock.Anything, model.KindKarta, model.RecordFilter{IncludeDeleted: true, Page: 2, Size: 10}).
			Return([]*model.Record{}, int64(11), nil)

		rec := PerformRequest(e, http.MethodGet, "/api/v1/records/karta?page=2&size=10&include_deleted=true", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		repo.AssertExpectations(t)
	})
}
