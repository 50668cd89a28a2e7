package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "hopskip/internal/errors"
	"hopskip/internal/logger"
	"hopskip/internal/messaging"
	"hopskip/internal/middleware"
	"hopskip/internal/models"
	"hopskip/internal/repository"
	"hopskip/internal/wizard"

	"github.com/google/uuid"
)

// WizardService runs the three booking flows over persisted wizard snapshots.
// Each mutation loads the snapshot, rebuilds the wizard with its flow's
// validators, applies the operation and stores the result.
type WizardService struct {
	wizardRepo *repository.WizardRepository
	bookings   *BookingService
	natsClient *messaging.NATSClient
}

func NewWizardService(wizardRepo *repository.WizardRepository, bookings *BookingService, natsClient *messaging.NATSClient) *WizardService {
	return &WizardService{
		wizardRepo: wizardRepo,
		bookings:   bookings,
		natsClient: natsClient,
	}
}

func (s *WizardService) guardianID(ctx context.Context) (int64, error) {
	id, ok := middleware.GuardianIDFromContext(ctx)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return id, nil
}

// Start opens a new wizard of the named flow and persists its first snapshot.
func (s *WizardService) Start(ctx context.Context, req *models.StartWizardRequest) (*models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, err
	}

	defs, ok := FlowDefs(req.Flow)
	if !ok {
		return nil, apperrors.InvalidInputf("unknown flow %q", req.Flow)
	}

	sessionID := uuid.New().String()
	w := wizard.New(req.Flow, defs)

	if err := s.wizardRepo.Save(ctx, sessionID, guardianID, w.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to save wizard session: %w", err)
	}

	return stateResponse(sessionID, w), nil
}

// load rebuilds an active wizard from its stored snapshot.
func (s *WizardService) load(ctx context.Context, sessionID string, guardianID int64) (wizard.Wizard, error) {
	snap, err := s.wizardRepo.Get(ctx, sessionID, guardianID)
	if err != nil {
		return wizard.Wizard{}, fmt.Errorf("failed to load wizard session: %w", err)
	}
	if snap == nil {
		return wizard.Wizard{}, apperrors.NotFoundf("wizard session %s", sessionID)
	}

	defs, ok := FlowDefs(snap.Flow)
	if !ok {
		return wizard.Wizard{}, apperrors.DataIntegrityf("wizard session %s has unknown flow %q", sessionID, snap.Flow)
	}

	return wizard.Restore(*snap, defs)
}

func (s *WizardService) save(ctx context.Context, sessionID string, guardianID int64, w wizard.Wizard) error {
	if err := s.wizardRepo.Save(ctx, sessionID, guardianID, w.Snapshot()); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (s *WizardService) Get(ctx context.Context, sessionID string) (*models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.load(ctx, sessionID, guardianID)
	if err != nil {
		return nil, err
	}

	return stateResponse(sessionID, w), nil
}

// SetField stores one form value without validating.
func (s *WizardService) SetField(ctx context.Context, req *models.WizardFieldRequest) (*models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.load(ctx, req.SessionID, guardianID)
	if err != nil {
		return nil, err
	}

	w = w.SetField(req.Field, req.Value)
	if err := s.save(ctx, req.SessionID, guardianID, w); err != nil {
		return nil, err
	}

	return stateResponse(req.SessionID, w), nil
}

// Next validates the current step and advances. A failed validation persists
// the step errors and still returns the wizard state so the client can render
// them; only structural problems surface as errors.
func (s *WizardService) Next(ctx context.Context, req *models.WizardNavRequest) (*models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.load(ctx, req.SessionID, guardianID)
	if err != nil {
		return nil, err
	}

	next, navErr := w.Next()
	if navErr != nil && !errors.Is(navErr, wizard.ErrStepInvalid) {
		return nil, navErr
	}

	if err := s.save(ctx, req.SessionID, guardianID, next); err != nil {
		return nil, err
	}

	if navErr != nil {
		// Validation failure: the persisted state carries the field errors.
		return stateResponse(req.SessionID, next), navErr
	}

	s.publishStepReached(ctx, req.SessionID, next)
	return stateResponse(req.SessionID, next), nil
}

func (s *WizardService) Previous(ctx context.Context, req *models.WizardNavRequest) (*models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.load(ctx, req.SessionID, guardianID)
	if err != nil {
		return nil, err
	}

	prev, err := w.Previous()
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, req.SessionID, guardianID, prev); err != nil {
		return nil, err
	}

	return stateResponse(req.SessionID, prev), nil
}

func (s *WizardService) JumpTo(ctx context.Context, req *models.WizardNavRequest) (*models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Index == nil {
		return nil, apperrors.InvalidInputf("jump requires a step index")
	}

	w, err := s.load(ctx, req.SessionID, guardianID)
	if err != nil {
		return nil, err
	}

	moved, err := w.JumpTo(*req.Index)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, req.SessionID, guardianID, moved); err != nil {
		return nil, err
	}

	return stateResponse(req.SessionID, moved), nil
}

// Submit validates the final step and creates the booking. The wizard only
// completes when the booking commit succeeds; otherwise the session survives
// with its form intact for a retry.
func (s *WizardService) Submit(ctx context.Context, req *models.WizardNavRequest) (*models.SubmitWizardResponse, *models.WizardStateResponse, error) {
	guardianID, err := s.guardianID(ctx)
	if err != nil {
		return nil, nil, err
	}

	w, err := s.load(ctx, req.SessionID, guardianID)
	if err != nil {
		return nil, nil, err
	}

	var bookingResp *models.CreateBookingResponse
	done, err := w.Submit(func() error {
		createReq, err := bookingRequestFromForm(w.Form)
		if err != nil {
			return err
		}
		resp, err := s.bookings.Create(ctx, createReq, w.Flow)
		if err != nil {
			return err
		}
		bookingResp = resp
		return nil
	})
	if err != nil {
		if errors.Is(err, wizard.ErrStepInvalid) {
			if saveErr := s.save(ctx, req.SessionID, guardianID, done); saveErr != nil {
				return nil, nil, saveErr
			}
			return nil, stateResponse(req.SessionID, done), err
		}
		return nil, nil, err
	}

	if err := s.wizardRepo.Delete(ctx, req.SessionID, guardianID); err != nil {
		logger.WithContext(ctx).Error("Failed to delete completed wizard session",
			"error", err,
			"session_id", req.SessionID)
	}

	return &models.SubmitWizardResponse{
		SessionID: req.SessionID,
		Booking:   bookingResp,
	}, stateResponse(req.SessionID, done), nil
}

func (s *WizardService) publishStepReached(ctx context.Context, sessionID string, w wizard.Wizard) {
	if w.Current >= len(w.Steps) {
		return
	}
	event := models.WizardStepReachedEvent{
		SessionID: sessionID,
		Flow:      w.Flow,
		StepID:    w.Steps[w.Current].ID,
		StepIndex: w.Current,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventWizardStepReached, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish wizard step event",
			"error", err,
			"session_id", sessionID)
	}
}

// bookingRequestFromForm converts validated wizard form fields into a create
// request. Fields were already validated step by step, so conversion failures
// here indicate a corrupt session.
func bookingRequestFromForm(form wizard.Form) (*models.CreateBookingRequest, error) {
	activityID, err := strconv.ParseInt(form["activity_id"], 10, 64)
	if err != nil {
		return nil, apperrors.DataIntegrityf("wizard form has invalid activity_id %q", form["activity_id"])
	}
	childID, err := strconv.ParseInt(form["child_id"], 10, 64)
	if err != nil {
		return nil, apperrors.DataIntegrityf("wizard form has invalid child_id %q", form["child_id"])
	}

	// Trial flows carry no payment step: zero-amount voucher-free booking.
	channel := form["payment_channel"]
	if channel == "" {
		channel = "card"
	}

	cardPaid, _ := strconv.ParseInt(form["card_paid"], 10, 64)
	voucherPaid, _ := strconv.ParseInt(form["voucher_paid"], 10, 64)
	sessionsTotal, _ := strconv.Atoi(form["sessions_total"])

	return &models.CreateBookingRequest{
		ActivityID:    activityID,
		ChildID:       childID,
		ChildName:     form["child_name"],
		Channel:       channel,
		CardPaid:      cardPaid,
		VoucherPaid:   voucherPaid,
		SessionsTotal: sessionsTotal,
	}, nil
}

func stateResponse(sessionID string, w wizard.Wizard) *models.WizardStateResponse {
	steps := make([]models.WizardStepView, len(w.Steps))
	for i, st := range w.Steps {
		steps[i] = models.WizardStepView{
			ID:     st.ID,
			Title:  st.Title,
			Status: string(st.Status),
			Errors: st.Errors,
		}
	}
	return &models.WizardStateResponse{
		SessionID: sessionID,
		Flow:      w.Flow,
		Current:   w.Current,
		Completed: w.Completed(),
		Steps:     steps,
		Form:      w.Form,
	}
}
