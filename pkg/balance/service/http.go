package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/optimahq/optima/pkg/app/errors"
	apphttp "github.com/optimahq/optima/pkg/app/http"
	"github.com/optimahq/optima/pkg/auth"
	"github.com/optimahq/optima/pkg/funding"
)

type handler struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the balance view routes on the router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &handler{service: service, logger: logger}

	r.Get("/profile", apphttp.HandleError(h.profile))
	r.Get("/start-page", apphttp.HandleError(h.startPage))
	r.Get("/deposits", apphttp.HandleError(h.depositHistory))
}

type profileResponse struct {
	Username         string `json:"username"`
	TotalBalance     string `json:"totalBalance"`
	Frozen           bool   `json:"frozen"`
	TodaysProfit     string `json:"todaysProfit"`
	TotalProfits     string `json:"totalProfits"`
	FrozenAmount     string `json:"frozenAmount"`
	VIPLevel         string `json:"vipLevel"`
	InvitationCode   string `json:"invitationCode"`
	TodaysCommission string `json:"todaysCommission"`
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	view, err := h.service.Profile(r.Context(), username)
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, profileResponse{
		Username:         view.Username,
		TotalBalance:     view.DisplayBalance.StringFixed(2),
		Frozen:           view.Frozen,
		TodaysProfit:     view.TodaysProfit.StringFixed(2),
		TotalProfits:     view.TotalProfits.StringFixed(2),
		FrozenAmount:     view.FrozenAmount.StringFixed(2),
		VIPLevel:         string(view.VIPLevel),
		InvitationCode:   view.InvitationCode,
		TodaysCommission: view.TodaysCommission.StringFixed(2),
	})
}

type startPageResponse struct {
	Username             string `json:"username"`
	TotalBalance         string `json:"totalBalance"`
	Frozen               bool   `json:"frozen"`
	TodaysProfit         string `json:"todaysProfit"`
	TotalProfits         string `json:"totalProfits"`
	FrozenAmount         string `json:"frozenAmount"`
	VIPLevel             string `json:"vipLevel"`
	CompletedCount       int    `json:"completedOptimizations"`
	OptimizationCount    int    `json:"optimizationCount"`
	MaxOptimizationCount int    `json:"maxOptimizationCount"`
	DepositAmount        string `json:"depositAmount"`
	FreezingPoint        int    `json:"freezingPoint"`
	InvitationCode       string `json:"invitationCode"`
}

func (h *handler) startPage(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	view, err := h.service.StartPage(r.Context(), username)
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, startPageResponse{
		Username:             view.Username,
		TotalBalance:         view.DisplayBalance.StringFixed(2),
		Frozen:               view.Frozen,
		TodaysProfit:         view.TodaysProfit.StringFixed(2),
		TotalProfits:         view.TotalProfits.StringFixed(2),
		FrozenAmount:         view.FrozenAmount.StringFixed(2),
		VIPLevel:             string(view.VIPLevel),
		CompletedCount:       view.CompletedCount,
		OptimizationCount:    view.LatestCount,
		MaxOptimizationCount: view.MaxOptimizationCount,
		DepositAmount:        view.DepositAmount.StringFixed(2),
		FreezingPoint:        view.FreezingPoint,
		InvitationCode:       view.InvitationCode,
	})
}

type depositRecordResponse struct {
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

type depositHistoryResponse struct {
	Username         string                  `json:"username"`
	TotalBalance     string                  `json:"totalBalance"`
	Frozen           bool                    `json:"frozen"`
	TotalDeposits    string                  `json:"totalDeposits"`
	TodaysCommission string                  `json:"todaysCommission"`
	Reviewing        []depositRecordResponse `json:"reviewing"`
	Success          []depositRecordResponse `json:"success"`
	Rejected         []depositRecordResponse `json:"rejected"`
}

func (h *handler) depositHistory(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	view, err := h.service.DepositHistory(r.Context(), username)
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, depositHistoryResponse{
		Username:         view.Username,
		TotalBalance:     view.DisplayBalance.StringFixed(2),
		Frozen:           view.Frozen,
		TotalDeposits:    view.TotalDeposits.StringFixed(2),
		TodaysCommission: view.TodaysCommission.StringFixed(2),
		Reviewing:        toDepositRecordResponses(view.Reviewing),
		Success:          toDepositRecordResponses(view.Success),
		Rejected:         toDepositRecordResponses(view.Rejected),
	})
}

func toDepositRecordResponses(records []*funding.DepositRecord) []depositRecordResponse {
	out := make([]depositRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, depositRecordResponse{
			TransactionID: rec.TransactionID,
			Amount:        rec.Amount.StringFixed(2),
			Status:        string(rec.Status),
			CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func sessionUsername(r *http.Request) (string, error) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok || username == "" {
		return "", apperrors.UnAuthorizedError(nil, "missing session")
	}
	return username, nil
}
