package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/catalog"
	"github.com/noah-isme/backend-pos/internal/repo"
)

type fakeRepo struct {
	rows    []repo.PromotionRow
	taxRows []repo.ProductSizeTaxRow
}

func (f *fakeRepo) ListByBranch(ctx context.Context, branchID pgtype.UUID) ([]repo.PromotionRow, error) {
	return f.rows, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]repo.PromotionRow, error) {
	return f.rows, nil
}

func (f *fakeRepo) ListProductSizeTaxRates(ctx context.Context) ([]repo.ProductSizeTaxRow, error) {
	return f.taxRows, nil
}

const (
	branchID = "99999999-9999-4999-8999-999999999999"
	sizeID   = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
)

func pgID(t *testing.T, value string) pgtype.UUID {
	t.Helper()
	var id pgtype.UUID
	require.NoError(t, id.Scan(value))
	return id
}

func tenPercentRow(t *testing.T) repo.PromotionRow {
	return repo.PromotionRow{
		ID:                 pgID(t, "11111111-1111-4111-8111-111111111111"),
		Name:               "ten percent",
		IsActive:           true,
		StartDate:          pgtype.Date{Time: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		EndDate:            pgtype.Date{Time: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), Valid: true},
		StartTime:          "00:00",
		EndTime:            "23:59",
		Days:               []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"},
		OrderTypes:         []string{"DINE_IN"},
		PromotionType:      "BASIC",
		BranchIDs:          []pgtype.UUID{pgID(t, branchID)},
		BasicDiscountType:  pgtype.Text{String: "PERCENT", Valid: true},
		BasicDiscountValue: pgtype.Text{String: "10", Valid: true},
	}
}

func newHandler(t *testing.T, r *fakeRepo) *Handler {
	t.Helper()
	return &Handler{
		Catalog: &catalog.Service{
			Repo:   r,
			Logger: zerolog.Nop(),
			Now:    func() time.Time { return time.Date(2025, time.June, 16, 12, 0, 0, 0, time.UTC) },
		},
		Logger:   zerolog.Nop(),
		Validate: validator.New(),
		Now:      func() time.Time { return time.Date(2025, time.June, 16, 12, 0, 0, 0, time.UTC) },
	}
}

func postQuote(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Quote(rr, req)
	return rr
}

func TestQuoteAppliesPromotion(t *testing.T) {
	h := newHandler(t, &fakeRepo{rows: []repo.PromotionRow{tenPercentRow(t)}})
	body := `{
		"branchId": "` + branchID + `",
		"orderType": "DINE_IN",
		"placedAt": "2025-06-16T12:00:00Z",
		"lines": [{
			"productSizeId": "` + sizeID + `",
			"qty": 2,
			"unitPriceGross": "11.50",
			"taxRate": "0.15"
		}]
	}`
	rr := postQuote(t, h, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			Totals struct {
				Gross              string `json:"gross"`
				Net                string `json:"net"`
				VAT                string `json:"vat"`
				Discount           string `json:"discount"`
				GrossAfterDiscount string `json:"grossAfterDiscount"`
			} `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "23", resp.Data.Totals.Gross)
	require.Equal(t, "20", resp.Data.Totals.Net)
	require.Equal(t, "3", resp.Data.Totals.VAT)
	require.Equal(t, "2.3", resp.Data.Totals.Discount)
	require.Equal(t, "20.7", resp.Data.Totals.GrossAfterDiscount)
}

func TestQuoteFallsBackToCatalogTaxRate(t *testing.T) {
	r := &fakeRepo{taxRows: []repo.ProductSizeTaxRow{{
		ProductSizeID: pgID(t, sizeID),
		Rate:          "0.15",
	}}}
	h := newHandler(t, r)
	body := `{
		"branchId": "` + branchID + `",
		"orderType": "PICKUP",
		"lines": [{
			"productSizeId": "` + sizeID + `",
			"qty": 1,
			"unitPriceGross": "11.50"
		}]
	}`
	rr := postQuote(t, h, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), `"net":"10"`)
}

func TestQuoteUnknownTaxRateIsUnprocessable(t *testing.T) {
	h := newHandler(t, &fakeRepo{})
	body := `{
		"branchId": "` + branchID + `",
		"orderType": "DINE_IN",
		"lines": [{
			"productSizeId": "` + sizeID + `",
			"qty": 1,
			"unitPriceGross": "11.50"
		}]
	}`
	rr := postQuote(t, h, body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "unable to price this order")
}

func TestQuoteNegativeTaxRateIsUnprocessable(t *testing.T) {
	h := newHandler(t, &fakeRepo{})
	body := `{
		"branchId": "` + branchID + `",
		"orderType": "DINE_IN",
		"lines": [{
			"productSizeId": "` + sizeID + `",
			"qty": 1,
			"unitPriceGross": "11.50",
			"taxRate": "-0.15"
		}]
	}`
	rr := postQuote(t, h, body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "UNPROCESSABLE")
}

func TestQuoteRejectsInvalidPayload(t *testing.T) {
	h := newHandler(t, &fakeRepo{})
	rr := postQuote(t, h, `{not json`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postQuote(t, h, `{"branchId": "`+branchID+`"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "VALIDATION_ERROR")

	rr = postQuote(t, h, `{"branchId": "`+branchID+`", "orderType": "TELEPATHY"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestQuoteEmptyCart(t *testing.T) {
	h := newHandler(t, &fakeRepo{})
	body := `{"branchId": "` + branchID + `", "orderType": "DINE_IN", "lines": []}`
	rr := postQuote(t, h, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), `"empty":true`)
}

func TestQuoteZeroQtyLineFailsValidation(t *testing.T) {
	h := newHandler(t, &fakeRepo{})
	body := `{
		"branchId": "` + branchID + `",
		"orderType": "DINE_IN",
		"lines": [{
			"productSizeId": "` + sizeID + `",
			"qty": 0,
			"unitPriceGross": "11.50",
			"taxRate": "0.15"
		}]
	}`
	rr := postQuote(t, h, body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
