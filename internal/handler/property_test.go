package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xelobcoder/listing/pkg/customerror"
	"github.com/xelobcoder/listing/pkg/property"
	"go.uber.org/zap"
)

type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Search(filter property.Filter, page int, count int) ([]property.Property, *property.Pagination, error) {
	args := m.Called(filter, page, count)
	var properties []property.Property
	if args.Get(0) != nil {
		properties = args.Get(0).([]property.Property)
	}
	var pagination *property.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*property.Pagination)
	}
	return properties, pagination, args.Error(2)
}

func (m *MockPropertyService) Get(id string) (*property.Property, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) Create(record *property.Property, images []*multipart.FileHeader) (*property.Property, error) {
	args := m.Called(record, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) Update(id string, record *property.Property) (*property.Property, error) {
	args := m.Called(id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyService) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPropertyService) LoadImage(reference string) ([]byte, string, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockPropertyService) Stats() (*property.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Stats), args.Error(1)
}

func newTestRouter(t *testing.T) (*MockPropertyService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := new(MockPropertyService)
	router := gin.New()
	NewPropertyHandler(svc, zap.NewNop().Sugar()).RegisterRoutes(router.Group(""))
	return svc, router
}

func performRequest(router *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	request := httptest.NewRequest(method, target, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	payload := map[string]any{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestListPropertiesParsesFilterAndPaging(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Search", mock.MatchedBy(func(filter property.Filter) bool {
		return filter.PropertyType == "HOUSE" &&
			filter.City == "accra" &&
			filter.MinPrice != nil && *filter.MinPrice == 50000 &&
			filter.MaxPrice != nil && *filter.MaxPrice == 250000
	}), 2, 5).Return([]property.Property{{Id: "p1"}}, &property.Pagination{Total: 6, Page: 2, Count: 5, TotalPages: 2}, nil)

	recorder := performRequest(router, http.MethodGet,
		"/properties?propertyType=HOUSE&city=accra&minPrice=50000&maxPrice=250000&page=2&count=5", nil, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Contains(t, payload, "properties")
	pagination := payload["pagination"].(map[string]any)
	assert.Equal(t, float64(6), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
	svc.AssertExpectations(t)
}

func TestListPropertiesIgnoresMalformedNumbers(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Search", property.Filter{}, 1, 10).
		Return([]property.Property{}, &property.Pagination{Page: 1, Count: 10}, nil)

	recorder := performRequest(router, http.MethodGet,
		"/properties?minPrice=cheap&page=zero&count=-3", nil, "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	svc.AssertCalled(t, "Search", property.Filter{}, 1, 10)
}

func TestGetPropertyNotFound(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Get", "ghost").Return(nil, customerror.ErrNotFound)

	recorder := performRequest(router, http.MethodGet, "/properties/ghost", nil, "")

	require.Equal(t, http.StatusNotFound, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "Property not found", payload["error"])
}

func TestCreatePropertyValidationFailure(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, customerror.ValidationError{Fields: []string{"title is required"}})

	form := url.Values{"price": {"100000"}}
	recorder := performRequest(router, http.MethodPost, "/properties",
		bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "title is required")
}

func TestCreatePropertyReturnsCreatedListing(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Create", mock.MatchedBy(func(record *property.Property) bool {
		return record.Title == "Test Villa" && record.Price == 100000 && record.HasPool
	}), mock.Anything).Return(&property.Property{Id: "p1", Title: "Test Villa"}, nil)

	form := url.Values{
		"title":   {"Test Villa"},
		"price":   {"100000"},
		"hasPool": {"true"},
	}
	recorder := performRequest(router, http.MethodPost, "/properties",
		bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusCreated, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, true, payload["success"])
	created := payload["property"].(map[string]any)
	assert.Equal(t, "p1", created["id"])
}

func TestCreatePropertyRejectsMalformedFloorPlans(t *testing.T) {
	svc, router := newTestRouter(t)

	form := url.Values{"floorPlans": {"not-a-json-array"}}
	recorder := performRequest(router, http.MethodPost, "/properties",
		bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePropertyForwardsUploadedImages(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(images []*multipart.FileHeader) bool {
		return len(images) == 2 && images[0].Filename == "front.jpg" && images[1].Filename == "back.png"
	})).Return(&property.Property{Id: "p1"}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("title", "Test Villa"))
	for i, name := range []string{"front.jpg", "back.png"} {
		part, err := writer.CreateFormFile(fmt.Sprintf("image_%d", i), name)
		require.NoError(t, err)
		_, err = part.Write([]byte("pixels"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	recorder := performRequest(router, http.MethodPost, "/properties", body, writer.FormDataContentType())

	assert.Equal(t, http.StatusCreated, recorder.Code)
	svc.AssertExpectations(t)
}

func TestCreatePropertyKeepsImageOrderPastTenFiles(t *testing.T) {
	svc, router := newTestRouter(t)
	names := []string{}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(images []*multipart.FileHeader) bool {
		names = names[:0]
		for _, image := range images {
			names = append(names, image.Filename)
		}
		return len(images) == 11
	})).Return(&property.Property{Id: "p1"}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	expected := []string{}
	for i := 0; i < 11; i++ {
		name := fmt.Sprintf("photo-%02d.jpg", i)
		expected = append(expected, name)
		part, err := writer.CreateFormFile(fmt.Sprintf("image_%d", i), name)
		require.NoError(t, err)
		_, err = part.Write([]byte("pixels"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	recorder := performRequest(router, http.MethodPost, "/properties", body, writer.FormDataContentType())

	require.Equal(t, http.StatusCreated, recorder.Code)
	// image_10 must land after image_2, not between image_1 and image_2.
	assert.Equal(t, expected, names)
}

func TestUpdatePropertyLeavesOmittedListsNil(t *testing.T) {
	svc, router := newTestRouter(t)
	var captured *property.Property
	svc.On("Update", "p1", mock.MatchedBy(func(record *property.Property) bool {
		captured = record
		return true
	})).Return(&property.Property{Id: "p1"}, nil)

	form := url.Values{"title": {"New title"}}
	recorder := performRequest(router, http.MethodPut, "/properties/p1",
		bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured)
	assert.Nil(t, captured.ImageUrls, "omitted imageUrls must stay nil so the stored list is kept")
	assert.Nil(t, captured.FloorPlans)
}

func TestUpdatePropertyParsesExplicitImageUrls(t *testing.T) {
	svc, router := newTestRouter(t)
	var captured *property.Property
	svc.On("Update", "p1", mock.MatchedBy(func(record *property.Property) bool {
		captured = record
		return true
	})).Return(&property.Property{Id: "p1"}, nil)

	form := url.Values{
		"title":     {"New title"},
		"imageUrls": {`["/uploads/properties/p1-2.jpg"]`},
	}
	recorder := performRequest(router, http.MethodPut, "/properties/p1",
		bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured)
	assert.Equal(t, []string{"/uploads/properties/p1-2.jpg"}, captured.ImageUrls)
}

func TestDeletePropertyReportsSuccess(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Delete", "p1").Return(nil)

	recorder := performRequest(router, http.MethodDelete, "/properties/p1", nil, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Property deleted successfully", payload["message"])
}

func TestDeletePropertyNotFound(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Delete", "ghost").Return(customerror.ErrNotFound)

	recorder := performRequest(router, http.MethodDelete, "/properties/ghost", nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetImageRequiresImageId(t *testing.T) {
	_, router := newTestRouter(t)

	recorder := performRequest(router, http.MethodGet, "/properties/images", nil, "")

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "Image ID is required", payload["error"])
}

func TestGetImageServesContent(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("LoadImage", "p1-1.jpg").Return([]byte("pixels"), "image/jpeg", nil)

	recorder := performRequest(router, http.MethodGet, "/properties/images?imageId=p1-1.jpg", nil, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pixels", recorder.Body.String())
	assert.Equal(t, "image/jpeg", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "inline")
}

func TestPropertyStats(t *testing.T) {
	svc, router := newTestRouter(t)
	svc.On("Stats").Return(&property.Stats{
		ByType:   map[string]int{"HOUSE": 3},
		ByStatus: map[string]int{"AVAILABLE": 2, "PENDING": 1},
	}, nil)

	recorder := performRequest(router, http.MethodGet, "/properties/stats", nil, "")

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	byType := payload["byType"].(map[string]any)
	assert.Equal(t, float64(3), byType["HOUSE"])
}
