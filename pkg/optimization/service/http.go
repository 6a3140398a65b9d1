package service

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/optimahq/optima/pkg/app/errors"
	apphttp "github.com/optimahq/optima/pkg/app/http"
	"github.com/optimahq/optima/pkg/auth"
	"github.com/optimahq/optima/pkg/optimization"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers HTTP endpoints for the optimization service on the
// given chi router. All routes require a user session.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/optimizations", apphttp.HandleError(h.submit))
	r.Get("/optimizations", apphttp.HandleError(h.history))
	r.Get("/optimizations/catalog", apphttp.HandleError(h.catalog))
	r.Post("/optimizations/settle", apphttp.HandleError(h.settle))
	r.Post("/optimizations/progress", apphttp.HandleError(h.progress))
}

type submitRequest struct {
	SelectedImage     string          `json:"selectedImage"`
	ImageName         string          `json:"imageName"`
	USDCAmount        decimal.Decimal `json:"usdcAmount"`
	ProfitAmount      decimal.Decimal `json:"profitAmount"`
	OptimizationCount int             `json:"optimizationCount"`
}

type entryResponse struct {
	ID                int64           `json:"id"`
	SelectedImage     string          `json:"selectedImage"`
	ImageName         string          `json:"imageName"`
	USDCAmount        decimal.Decimal `json:"usdcAmount"`
	ProfitAmount      decimal.Decimal `json:"profitAmount"`
	OptimizationCount int             `json:"optimizationCount"`
	Status            string          `json:"status"`
	SubmissionDate    string          `json:"submissionDate"`
}

func toEntryResponse(entry *optimization.Entry) *entryResponse {
	return &entryResponse{
		ID:                entry.ID,
		SelectedImage:     entry.SelectedImage,
		ImageName:         entry.ImageName,
		USDCAmount:        entry.USDCAmount,
		ProfitAmount:      entry.ProfitAmount,
		OptimizationCount: entry.Count,
		Status:            string(entry.Status),
		SubmissionDate:    entry.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *HTTP) submit(w http.ResponseWriter, r *http.Request) error {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	var req submitRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.SelectedImage == "" || req.ImageName == "" {
		return apperrors.BadRequestError(nil, "selectedImage and imageName are required")
	}

	res, err := h.service.Submit(r.Context(), &SubmitRequest{
		Username:      username,
		SelectedImage: req.SelectedImage,
		ImageName:     req.ImageName,
		USDCAmount:    req.USDCAmount,
		ProfitAmount:  req.ProfitAmount,
		ClaimedCount:  req.OptimizationCount,
	})
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"frozen":  res.Frozen,
		"entry":   toEntryResponse(res.Entry),
	})
}

func (h *HTTP) settle(w http.ResponseWriter, r *http.Request) error {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	res, err := h.service.Settle(r.Context(), username)
	if err != nil {
		// A frozen user is routed to the frozen surface, not shown an error.
		if errors.Is(err, ErrFrozenRedirect) {
			return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
				"success":  false,
				"frozen":   true,
				"redirect": "/frozen",
			})
		}
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"settledCount": res.SettledCount,
		"totalProfit":  res.TotalProfit,
		"totalBalance": res.Account.TotalBalance,
		"todaysProfit": res.Account.TodaysProfit,
	})
}

type progressRequest struct {
	ProfitDelta  decimal.Decimal `json:"profitDelta"`
	BalanceDelta decimal.Decimal `json:"balanceDelta"`
}

func (h *HTTP) progress(w http.ResponseWriter, r *http.Request) error {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	var req progressRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	acct, err := h.service.ApplyProgress(r.Context(), &ProgressRequest{
		Username:     username,
		ProfitDelta:  req.ProfitDelta,
		BalanceDelta: req.BalanceDelta,
	})
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"todaysProfit": acct.TodaysProfit,
		"totalProfits": acct.TotalProfits,
		"totalBalance": acct.TotalBalance,
	})
}

func (h *HTTP) history(w http.ResponseWriter, r *http.Request) error {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "authentication required")
	}

	entries, err := h.service.History(r.Context(), username)
	if err != nil {
		return err
	}

	resp := make([]*entryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toEntryResponse(entry))
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entries": resp,
	})
}

func (h *HTTP) catalog(w http.ResponseWriter, _ *http.Request) error {
	return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"items":   optimization.Catalog(),
	})
}
