// Package supabase reads the facility directory through Supabase's PostgREST
// API, for deployments that only have the project URL and API key.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/example/icecheck/internal/domain/facility"
	"github.com/go-resty/resty/v2"
)

type FacilityRepo struct {
	client *resty.Client
}

func NewFacilityRepo(projectURL, apiKey string) *FacilityRepo {
	c := resty.New().
		SetBaseURL(projectURL+"/rest/v1").
		SetTimeout(10*time.Second).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")
	return &FacilityRepo{client: c}
}

// extID accepts the id as a JSON number or a numeric string; the column type
// differs between projects.
type extID int64

func (e *extID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("ExtID %s: %w", b, err)
	}
	*e = extID(n)
	return nil
}

type facilityRow struct {
	ExtID       extID  `json:"ExtID"`
	Description string `json:"Description"`
}

func (r *FacilityRepo) selectRows(ctx context.Context, table, columns string, out any) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("select", columns).
		Get("/" + table)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	if resp.IsError() {
		return fmt.Errorf("select %s: http %d: %s", table, resp.StatusCode(), resp.String())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (r *FacilityRepo) Facilities(ctx context.Context) ([]facility.Facility, error) {
	var rows []facilityRow
	if err := r.selectRows(ctx, "facilities", "ExtID,Description", &rows); err != nil {
		return nil, err
	}
	out := make([]facility.Facility, 0, len(rows))
	for _, row := range rows {
		out = append(out, facility.Facility{ExtID: int64(row.ExtID), Description: row.Description})
	}
	return out, nil
}

func (r *FacilityRepo) DefaultIDs(ctx context.Context) ([]int64, error) {
	var rows []facilityRow
	if err := r.selectRows(ctx, "defaultFacilities", "ExtID", &rows); err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, int64(row.ExtID))
	}
	return out, nil
}
