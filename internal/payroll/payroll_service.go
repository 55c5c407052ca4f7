package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-staffadmin/internal/events"
	"go-staffadmin/internal/messaging/kafka"
	payrollerrors "go-staffadmin/internal/payroll/errors"
	"go-staffadmin/internal/policy"
	"go-staffadmin/internal/shared/contextutil"
	"go-staffadmin/internal/shared/counter"
	"go-staffadmin/internal/staff"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const PayrollPeriodsCacheKey = "payroll:periods"

type Service interface {
	Generate(ctx context.Context, actorID string, req GeneratePayrollRequest) (GeneratePayrollResponse, error)
	GetAll(ctx context.Context, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	ListPeriods(ctx context.Context) ([]PeriodResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	GetStaffHistory(ctx context.Context, staffID string) ([]PayslipResponse, error)
	Approve(ctx context.Context, actorID, id string) (PayrollResponse, error)
	MarkAsPaid(ctx context.Context, actorID, id string) (PayrollResponse, error)
	Void(ctx context.Context, actorID, id string, req VoidPayrollRequest) (PayrollResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	staffRepo staff.Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	sf        *singleflight.Group
	pol       policy.DeductionPolicy
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	staffRepo staff.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	pol policy.DeductionPolicy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		staffRepo: staffRepo,
		counter:   counterRepo,
		outbox:    outboxRepo,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		pol:       pol,
		logger:    l,
	}
}

// Generate membuat satu batch payroll DRAFT untuk seluruh staff aktif.
// Seluruh batch dalam satu transaksi: satu duplikat membatalkan semuanya,
// jadi DuplicatePeriod selalu berarti tidak ada baris yang tertulis.
func (s *service) Generate(
	ctx context.Context,
	actorID string,
	req GeneratePayrollRequest,
) (GeneratePayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("generate payroll requested",
		zap.String("request_id", rid),
		zap.String("period_start", req.PeriodStart),
		zap.String("period_end", req.PeriodEnd),
		zap.String("run_type", req.RunType),
	)

	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return GeneratePayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	periodStart, periodEnd, err := parsePeriod(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return GeneratePayrollResponse{}, err
	}

	runType := req.RunType
	if runType == "" {
		runType = RunTypeRegular
	}
	if !ValidRunType(runType) {
		return GeneratePayrollResponse{}, payrollerrors.ErrInvalidRunType
	}

	roster, err := s.staffRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("generate payroll roster lookup failed", zap.String("request_id", rid), zap.Error(err))
		return GeneratePayrollResponse{}, err
	}

	skipped := 0
	records := make([]*PayrollRecord, 0, len(roster))
	for _, member := range roster {
		if member.MonthlySalary <= 0 {
			s.logger.Warn("generate payroll skipping staff with non-positive salary",
				zap.String("request_id", rid),
				zap.String("staff_id", member.ID.String()),
			)
			skipped++
			continue
		}

		record, err := buildRecord(member, periodStart, periodEnd, runType, s.pol, createdBy)
		if err != nil {
			return GeneratePayrollResponse{}, err
		}
		record.Notes = req.Notes

		nextVal, err := s.counter.GetNextValue(ctx, "payroll_number")
		if err != nil {
			s.logger.Error("generate payroll number sequence failed", zap.String("request_id", rid), zap.Error(err))
			return GeneratePayrollResponse{}, payrollerrors.ErrPersistenceFailure
		}
		record.PayrollNumber = formatPayrollNumber(nextVal)

		records = append(records, record)
	}

	if len(records) == 0 {
		return GeneratePayrollResponse{}, payrollerrors.ErrEmptyRoster
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return GeneratePayrollResponse{}, payrollerrors.ErrPersistenceFailure
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Cek seluruh tuple sebelum menulis apapun; race yang lolos tetap
	// tertangkap unique index dan dipetakan oleh mapRepositoryError.
	for _, record := range records {
		exists, err := qtx.ExistsForPeriod(ctx, record.StaffID.String(), record.PeriodStart, record.PeriodEnd, record.RunType)
		if err != nil {
			s.logger.Error("generate payroll duplicate pre-check failed", zap.String("request_id", rid), zap.Error(err))
			return GeneratePayrollResponse{}, payrollerrors.ErrPersistenceFailure
		}
		if exists {
			s.logger.Warn("generate payroll duplicate period",
				zap.String("request_id", rid),
				zap.String("staff_id", record.StaffID.String()),
			)
			return GeneratePayrollResponse{}, payrollerrors.ErrDuplicatePeriod
		}
	}

	if err := qtx.CreateBatch(ctx, records); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == payrollerrors.ErrDuplicatePeriod {
			return GeneratePayrollResponse{}, mapped
		}
		s.logger.Error("generate payroll batch persist failed", zap.String("request_id", rid), zap.Error(err))
		return GeneratePayrollResponse{}, payrollerrors.ErrPersistenceFailure
	}

	recordIDs := make([]string, len(records))
	for i, record := range records {
		recordIDs[i] = record.ID.String()
	}

	event := events.PayrollGeneratedEvent{
		EventType:   "payroll_generated",
		RequestID:   rid,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		RunType:     runType,
		RecordIDs:   recordIDs,
		RecordCount: len(records),
		GeneratedBy: createdBy.String(),
		OccurredAt:  time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return GeneratePayrollResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll_batch",
			AggregateID:   recordIDs[0],
			EventType:     event.EventType,
			Topic:         events.PayrollGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("generate payroll outbox persist failed", zap.String("request_id", rid), zap.Error(err))
			return GeneratePayrollResponse{}, payrollerrors.ErrPersistenceFailure
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate payroll commit failed", zap.String("request_id", rid), zap.Error(err))
		return GeneratePayrollResponse{}, payrollerrors.ErrPersistenceFailure
	}

	s.invalidatePeriodsCache(ctx)

	s.logger.Info("generate payroll success",
		zap.String("request_id", rid),
		zap.Int("count", len(records)),
		zap.Int("skipped", skipped),
	)

	resp := GeneratePayrollResponse{
		Count:   len(records),
		Skipped: skipped,
		Records: make([]PayrollResponse, len(records)),
	}
	for i, record := range records {
		resp.Records[i] = mapToResponse(*record)
	}
	return resp, nil
}

func (s *service) GetAll(
	ctx context.Context,
	filter GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	if filter.PeriodStart != "" || filter.PeriodEnd != "" {
		if _, err := parseDate(filter.PeriodStart); filter.PeriodStart != "" && err != nil {
			return nil, err
		}
		if _, err := parseDate(filter.PeriodEnd); filter.PeriodEnd != "" && err != nil {
			return nil, err
		}
	}

	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all payrolls failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(records), nil
}

func (s *service) ListPeriods(ctx context.Context) ([]PeriodResponse, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, PayrollPeriodsCacheKey).Result(); err == nil {
			var resp []PeriodResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight supaya query distinct tidak menumpuk saat cache kosong
	v, err, _ := s.sf.Do(PayrollPeriodsCacheKey, func() (interface{}, error) {
		rows, err := s.repo.ListPeriods(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]PeriodResponse, len(rows))
		for i, row := range rows {
			resp[i] = PeriodResponse{
				PeriodStart: row.PeriodStart.Format("2006-01-02"),
				PeriodEnd:   row.PeriodEnd.Format("2006-01-02"),
				Label:       FormatPeriodLabel(row.PeriodStart, row.PeriodEnd),
			}
		}

		// 3. Simpan ke Redis; daftar periode hanya berubah saat generate
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, PayrollPeriodsCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]PeriodResponse), nil
}

func (s *service) GetPayslip(ctx context.Context, id string) (PayslipResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get payslip failed", zap.String("payroll_id", id), zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	return mapToPayslipResponse(*record), nil
}

// GetStaffHistory memakai proyeksi payslip: referensi audit internal
// (created_by, approved_by) tidak pernah keluar lewat endpoint ini.
func (s *service) GetStaffHistory(ctx context.Context, staffID string) ([]PayslipResponse, error) {
	if _, err := uuid.Parse(staffID); err != nil {
		return nil, payrollerrors.ErrPayrollNotFound
	}

	records, err := s.repo.FindByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("get staff payroll history failed", zap.String("staff_id", staffID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]PayslipResponse, len(records))
	for i, record := range records {
		resp[i] = mapToPayslipResponse(record)
	}
	return resp, nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (PayrollResponse, error) {
	approver, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	return s.transition(ctx, id, func(record *PayrollRecord) error {
		if record.Status != StatusDraft {
			return payrollerrors.ErrApproveOnlyDraft
		}
		now := time.Now().UTC()
		record.Status = StatusApproved
		record.ApprovedBy = &approver
		record.ApprovedAt = &now
		return nil
	})
}

func (s *service) MarkAsPaid(ctx context.Context, actorID, id string) (PayrollResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	return s.transition(ctx, id, func(record *PayrollRecord) error {
		if record.Status != StatusApproved {
			return payrollerrors.ErrPayOnlyApproved
		}
		now := time.Now().UTC()
		record.Status = StatusPaid
		record.PaidAt = &now
		return nil
	})
}

func (s *service) Void(ctx context.Context, actorID, id string, req VoidPayrollRequest) (PayrollResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	return s.transition(ctx, id, func(record *PayrollRecord) error {
		if record.Status == StatusPaid {
			return payrollerrors.ErrVoidPaid
		}
		now := time.Now().UTC()
		record.Status = StatusVoid
		record.VoidedAt = &now
		if record.Notes == "" {
			record.Notes = req.Reason
		} else {
			record.Notes = record.Notes + "; voided: " + req.Reason
		}
		return nil
	})
}

// transition memuat record di dalam transaksi, menjalankan mutasi status,
// lalu menyimpan kolom workflow saja.
func (s *service) transition(
	ctx context.Context,
	id string,
	mutate func(record *PayrollRecord) error,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("payroll transition begin tx failed", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := mutate(record); err != nil {
		return PayrollResponse{}, err
	}
	record.UpdatedAt = time.Now().UTC()

	if err := qtx.UpdateStatus(ctx, record); err != nil {
		s.logger.Error("payroll transition persist failed", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("payroll transition commit failed", zap.String("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll status changed",
		zap.String("payroll_id", id),
		zap.String("status", record.Status),
	)

	return mapToResponse(*record), nil
}

func (s *service) invalidatePeriodsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PayrollPeriodsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate payroll periods cache",
			zap.Error(err),
			zap.String("key", PayrollPeriodsCacheKey),
		)
	}
}

func formatPayrollNumber(nextVal int64) string {
	return fmt.Sprintf("PAY-%06d", nextVal)
}

func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	periodStart, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	periodEnd, err := parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if periodStart.After(periodEnd) {
		return time.Time{}, time.Time{}, payrollerrors.ErrInvalidDateRange
	}
	return periodStart, periodEnd, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t.UTC(), nil
}

func mapToResponse(record PayrollRecord) PayrollResponse {
	earnings, deductions := mapLines(record.Lines)

	resp := PayrollResponse{
		ID:            record.ID.String(),
		PayrollNumber: record.PayrollNumber,
		StaffID:       record.StaffID.String(),
		PeriodStart:   record.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     record.PeriodEnd.Format("2006-01-02"),
		RunType:       record.RunType,
		Earnings:      earnings,
		Deductions:    deductions,
		TaxBreakdown: TaxBreakdownResponse{
			IncomeTax:           record.IncomeTax,
			PensionContribution: record.PensionContribution,
			Other:               record.OtherTax,
			Total:               record.TaxTotal,
		},
		GrossPay:        record.GrossPay,
		TotalDeductions: record.TotalDeductions,
		NetPay:          record.NetPay,
		Currency:        record.Currency,
		Status:          record.Status,
		Notes:           record.Notes,
		CreatedBy:       record.CreatedBy.String(),
	}

	if record.ApprovedBy != nil {
		v := record.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if record.ApprovedAt != nil {
		v := record.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if record.PaidAt != nil {
		v := record.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapToPayslipResponse(record PayrollRecord) PayslipResponse {
	earnings, deductions := mapLines(record.Lines)

	resp := PayslipResponse{
		ID:            record.ID.String(),
		PayrollNumber: record.PayrollNumber,
		PeriodStart:   record.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     record.PeriodEnd.Format("2006-01-02"),
		PeriodLabel:   FormatPeriodLabel(record.PeriodStart, record.PeriodEnd),
		RunType:       record.RunType,
		Earnings:      earnings,
		Deductions:    deductions,
		TaxBreakdown: TaxBreakdownResponse{
			IncomeTax:           record.IncomeTax,
			PensionContribution: record.PensionContribution,
			Other:               record.OtherTax,
			Total:               record.TaxTotal,
		},
		GrossPay:        record.GrossPay,
		TotalDeductions: record.TotalDeductions,
		NetPay:          record.NetPay,
		Currency:        record.Currency,
		Status:          record.Status,
	}

	if record.StaffMember != nil {
		resp.StaffName = record.StaffMember.FullName
		resp.StaffNumber = record.StaffMember.StaffNumber
		resp.Department = record.StaffMember.Department
	}
	if record.PaidAt != nil {
		v := record.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapLines(lines []PayrollLine) ([]EarningLineResponse, []DeductionLineResponse) {
	earnings := make([]EarningLineResponse, 0, len(lines))
	deductions := make([]DeductionLineResponse, 0)
	for _, line := range lines {
		switch line.Kind {
		case LineKindEarning:
			earnings = append(earnings, EarningLineResponse{
				Label:   line.Label,
				Amount:  line.Amount,
				Taxable: line.Taxable,
			})
		case LineKindDeduction:
			deductions = append(deductions, DeductionLineResponse{
				Label:  line.Label,
				Amount: line.Amount,
			})
		}
	}
	return earnings, deductions
}

func mapToListResponse(records []PayrollRecord) []PayrollResponse {
	resp := make([]PayrollResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp
}
