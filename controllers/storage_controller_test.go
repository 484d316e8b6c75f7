package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageController(t *testing.T) {
	router, _ := sessionRouter()
	sc := NewStorageController()
	router.GET("/api/storage/info", sc.Info)
	router.GET("/api/storage/health", sc.Health)

	recorder := performRequest(router, http.MethodGet, "/api/storage/health", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"healthy":true`)

	recorder = performRequest(router, http.MethodGet, "/api/storage/info", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var info storage.StorageInfo
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &info))
	assert.Empty(t, info.Keys)
	assert.Equal(t, storage.EstimatedCapacity, info.Available)
}
