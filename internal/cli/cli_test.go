package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/room-allocation-backend/internal/domain/allocator"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/config"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/logging"
)

var samplePrices = []string{"23", "45", "155", "374", "22", "99.99", "100", "101", "115", "209"}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", "nonexistent.yaml"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestAllocateCommand_Summary(t *testing.T) {
	args := append([]string{"allocate", "--premium", "7", "--economy", "3"}, samplePrices...)

	out, err := runCommand(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Premium: 7 rooms, revenue 1153.99")
	assert.Contains(t, out, "Economy: 3 rooms, revenue 90")
}

func TestAllocateCommand_Explain(t *testing.T) {
	args := append([]string{"allocate", "--premium", "1", "--economy", "1", "--explain", "--explain-limit", "2"}, samplePrices...)

	out, err := runCommand(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Rejected: premium=5 economy=3")
	assert.Contains(t, out, "[209, 155] (+3 more)")
	assert.Contains(t, out, "[45, 23] (+1 more)")
}

func TestAllocateCommand_JSON(t *testing.T) {
	args := append([]string{"allocate", "--premium", "3", "--economy", "3", "--json"}, samplePrices...)

	out, err := runCommand(t, args...)
	require.NoError(t, err)

	assert.JSONEq(t, `{"usagePremium":3,"revenuePremium":738,"usageEconomy":3,"revenueEconomy":167.99}`, out)
}

func TestAllocateCommand_ExplainJSONUsesDefaultLimit(t *testing.T) {
	args := append([]string{"allocate", "--premium", "7", "--economy", "3", "--explain", "--json"}, samplePrices...)

	out, err := runCommand(t, args...)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	explanation := body["explanation"].(map[string]any)
	assert.Equal(t, float64(config.DefaultExplainLimit), explanation["explainLimit"])
	assert.Equal(t, 1.0, explanation["upgrades"])
}

func TestAllocateCommand_Errors(t *testing.T) {
	_, err := runCommand(t, "allocate", "--premium=-1", "10")
	require.ErrorIs(t, err, allocator.ErrInvalidArgument)

	_, err = runCommand(t, "allocate", "--premium", "1", "ten")
	require.ErrorIs(t, err, allocator.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "ten")
}

func TestNewApplication(t *testing.T) {
	cfg := config.LoadOrEnvWithPath("nonexistent.yaml")
	app := NewApplication(cfg, logging.Discard())

	req := httptest.NewRequest(http.MethodPost, "/api/occupancy",
		strings.NewReader(`{"premiumRooms":2,"economyRooms":7,"potentialGuests":[23,45,155,374,22,99.99,100,101,115,209]}`))
	req.Header.Set("Idempotency-Key", "cli-test")
	rec := httptest.NewRecorder()
	app.Server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"usagePremium":2,"revenuePremium":583,"usageEconomy":4,"revenueEconomy":189.99}`, rec.Body.String())
	assert.Equal(t, 1, app.Store.Len())

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "room_allocation_idempotency_outcomes_total")
	assert.Contains(t, names, "go_goroutines")
}
