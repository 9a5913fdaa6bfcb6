package handler_test

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
)

func TestExportEndpoint_CSVCarriesFullLifecycle(t *testing.T) {
	router := newTestRouter(t)

	id := createLabel(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/labels/%d/print", id),
		map[string]interface{}{"pressure": ""})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/shipments", map[string]interface{}{
		"meta":  map[string]interface{}{"customer": "Apex", "vehicle": "V-1"},
		"items": []map[string]interface{}{{"id": id, "weight_g": 12.5}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var shipment repository.Shipment
	decodeData(t, rec, &shipment)

	rec = doAdminJSON(t, router, http.MethodGet, "/api/v1/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	assert.Equal(t, []string{
		"ID", "Pipe Name", "Size", "Color", "Weight (g)", "Length (m)",
		"Batch", "Operator", "Created At", "Printed At", "Dispatched At",
		"Dispatched By", "Shipment ID",
	}, header)

	row := rows[1]
	require.Len(t, row, len(header))
	assert.Equal(t, strconv.FormatInt(id, 10), row[0])
	assert.NotEmpty(t, row[9], "printed_at column")
	assert.NotEmpty(t, row[10], "dispatched_at column")
	assert.Equal(t, repository.BatchDispatchedBy, row[11])
	assert.Equal(t, strconv.FormatInt(shipment.ID, 10), row[12])
}
