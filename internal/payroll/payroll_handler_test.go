package payroll_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-staffadmin/internal/payroll"
	payrollerrors "go-staffadmin/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	generateFn        func(ctx context.Context, actorID string, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error)
	getAllFn          func(ctx context.Context, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error)
	listPeriodsFn     func(ctx context.Context) ([]payroll.PeriodResponse, error)
	getPayslipFn      func(ctx context.Context, id string) (payroll.PayslipResponse, error)
	getStaffHistoryFn func(ctx context.Context, staffID string) ([]payroll.PayslipResponse, error)
	approveFn         func(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error)
	markPaidFn        func(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error)
	voidFn            func(ctx context.Context, actorID, id string, req payroll.VoidPayrollRequest) (payroll.PayrollResponse, error)
}

func (f *fakePayrollService) Generate(ctx context.Context, actorID string, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	return f.generateFn(ctx, actorID, req)
}

func (f *fakePayrollService) GetAll(ctx context.Context, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
	return f.getAllFn(ctx, filter)
}

func (f *fakePayrollService) ListPeriods(ctx context.Context) ([]payroll.PeriodResponse, error) {
	return f.listPeriodsFn(ctx)
}

func (f *fakePayrollService) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	return f.getPayslipFn(ctx, id)
}

func (f *fakePayrollService) GetStaffHistory(ctx context.Context, staffID string) ([]payroll.PayslipResponse, error) {
	return f.getStaffHistoryFn(ctx, staffID)
}

func (f *fakePayrollService) Approve(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error) {
	return f.approveFn(ctx, actorID, id)
}

func (f *fakePayrollService) MarkAsPaid(ctx context.Context, actorID, id string) (payroll.PayrollResponse, error) {
	return f.markPaidFn(ctx, actorID, id)
}

func (f *fakePayrollService) Void(ctx context.Context, actorID, id string, req payroll.VoidPayrollRequest) (payroll.PayrollResponse, error) {
	return f.voidFn(ctx, actorID, id, req)
}

func TestPayrollHandler_Generate(t *testing.T) {
	actorID := uuid.New().String()

	svc := &fakePayrollService{
		generateFn: func(ctx context.Context, aid string, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, "2026-02-01", req.PeriodStart)
			assert.Equal(t, "2026-02-28", req.PeriodEnd)
			return payroll.GeneratePayrollResponse{
				Count:   3,
				Records: []payroll.PayrollResponse{{}, {}, {}},
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"period_start":"2026-02-01","period_end":"2026-02-28"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", actorID)

	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_Generate_MissingPeriod(t *testing.T) {
	svc := &fakePayrollService{
		generateFn: func(ctx context.Context, aid string, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
			t.Fatal("service must not be called on binding failure")
			return payroll.GeneratePayrollResponse{}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{"period_start":"2026-02-01"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uuid.New().String())

	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestPayrollHandler_Generate_DuplicatePeriod(t *testing.T) {
	svc := &fakePayrollService{
		generateFn: func(ctx context.Context, aid string, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
			return payroll.GeneratePayrollResponse{}, payrollerrors.ErrDuplicatePeriod
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"period_start":"2026-02-01","period_end":"2026-02-28"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uuid.New().String())

	h.Generate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestPayrollHandler_GetAll_Pagination(t *testing.T) {
	all := make([]payroll.PayrollResponse, 25)
	for i := range all {
		all[i] = payroll.PayrollResponse{ID: uuid.New().String()}
	}

	svc := &fakePayrollService{
		getAllFn: func(ctx context.Context, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
			assert.Equal(t, "DRAFT", filter.Status)
			return all, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls?status=DRAFT&page=3&page_size=10", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var pageData []payroll.PayrollResponse
	assert.NoError(t, json.Unmarshal(env.Data, &pageData))
	assert.Len(t, pageData, 5)
}

func TestPayrollHandler_GetPeriods(t *testing.T) {
	svc := &fakePayrollService{
		listPeriodsFn: func(ctx context.Context) ([]payroll.PeriodResponse, error) {
			return []payroll.PeriodResponse{
				{PeriodStart: "2026-02-01", PeriodEnd: "2026-02-28", Label: "Feb 1–28, 2026"},
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/periods", nil)

	h.GetPeriods(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_GetPayslip_NotFound(t *testing.T) {
	svc := &fakePayrollService{
		getPayslipFn: func(ctx context.Context, id string) (payroll.PayslipResponse, error) {
			return payroll.PayslipResponse{}, payrollerrors.ErrPayrollNotFound
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/123/payslip", nil)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}

	h.GetPayslip(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestPayrollHandler_DownloadPayslipPDF(t *testing.T) {
	payrollID := uuid.New().String()
	svc := &fakePayrollService{
		getPayslipFn: func(ctx context.Context, id string) (payroll.PayslipResponse, error) {
			return payroll.PayslipResponse{
				ID:            id,
				PayrollNumber: "PAY-000042",
				StaffName:     "Peter Otieno",
				StaffNumber:   "STF-000007",
				PeriodLabel:   "Feb 1–28, 2026",
				RunType:       payroll.RunTypeRegular,
				GrossPay:      8_000_000,
				NetPay:        5_825_267,
				Currency:      "KES",
				Status:        payroll.StatusApproved,
				Earnings: []payroll.EarningLineResponse{
					{Label: "Basic Salary", Amount: 8_000_000, Taxable: true},
				},
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/"+payrollID+"/payslip/download", nil)
	c.Params = []gin.Param{{Key: "id", Value: payrollID}}

	h.DownloadPayslipPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payslip-PAY-000042.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-1.4")))
	assert.Contains(t, w.Body.String(), "PAY-000042")
}

func TestPayrollHandler_Void(t *testing.T) {
	actorID := uuid.New().String()
	payrollID := uuid.New().String()

	svc := &fakePayrollService{
		voidFn: func(ctx context.Context, aid, id string, req payroll.VoidPayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, payrollID, id)
			assert.Equal(t, "duplicate entry", req.Reason)
			return payroll.PayrollResponse{ID: id, Status: payroll.StatusVoid}, nil
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"reason":"duplicate entry"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/"+payrollID+"/void", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: payrollID}}
	c.Set("user_id", actorID)

	h.Void(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPayrollHandler_InternalError(t *testing.T) {
	svc := &fakePayrollService{
		getAllFn: func(ctx context.Context, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
			return nil, errors.New("boom")
		},
	}

	h := payroll.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls", nil)

	h.GetAll(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}
