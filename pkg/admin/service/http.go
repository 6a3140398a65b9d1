package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/optimahq/optima/pkg/account"
	apperrors "github.com/optimahq/optima/pkg/app/errors"
	apphttp "github.com/optimahq/optima/pkg/app/http"
	"github.com/optimahq/optima/pkg/auth"
	"github.com/optimahq/optima/pkg/funding"
	"github.com/optimahq/optima/pkg/user"
)

type handler struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the operator routes on the router. The router is
// expected to sit behind the admin session middleware.
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &handler{service: service, logger: logger}

	r.Put("/users/{username}", apphttp.HandleError(h.editUser))
	r.Put("/users/{username}/status", apphttp.HandleError(h.setUserStatus))
	r.Delete("/users/{username}", apphttp.HandleError(h.deleteUser))
	r.Get("/users/stats", apphttp.HandleError(h.userStats))
	r.Get("/frozen-accounts", apphttp.HandleError(h.frozenAccounts))

	r.Post("/users/{username}/reset-count", apphttp.HandleError(h.resetCount))
	r.Get("/reset-activity", apphttp.HandleError(h.resetActivity))
	r.Delete("/reset-activity/{username}", apphttp.HandleError(h.clearResetCount))
	r.Delete("/reset-activity", apphttp.HandleError(h.clearAllResetCounts))

	r.Post("/referral-codes", apphttp.HandleError(h.createReferralCode))
	r.Get("/referral-codes", apphttp.HandleError(h.referralCodes))
	r.Delete("/referral-codes/{id}", apphttp.HandleError(h.deleteReferralCode))

	r.Get("/withdrawals", apphttp.HandleError(h.withdrawals))
	r.Put("/withdrawals/{id}/status", apphttp.HandleError(h.setWithdrawalStatus))
	r.Delete("/withdrawals/{id}", apphttp.HandleError(h.deleteWithdrawal))

	r.Post("/profits/reset", apphttp.HandleError(h.resetProfits))
}

type editUserRequest struct {
	TotalBalance  *string `json:"totalBalance"`
	VIPLevel      *string `json:"vipLevel"`
	FreezingPoint *int    `json:"freezingPoint"`
	DailyLimit    *int    `json:"dailyLimit"`

	DepositAmount *string `json:"depositAmount"`

	PendingRewardUSDC   *string `json:"pendingRewardUsdc"`
	PendingRewardProfit *string `json:"pendingRewardProfit"`
	FrozenRewardUSDC    *string `json:"frozenRewardUsdc"`
	FrozenRewardProfit  *string `json:"frozenRewardProfit"`
}

func (h *handler) editUser(w http.ResponseWriter, r *http.Request) error {
	var body editUserRequest
	if err := apphttp.DecodeJSON(r, &body); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	req := &EditUserRequest{
		Username:      chi.URLParam(r, "username"),
		FreezingPoint: body.FreezingPoint,
		DailyLimit:    body.DailyLimit,
	}
	if body.VIPLevel != nil {
		level := account.VIPLevel(*body.VIPLevel)
		req.VIPLevel = &level
	}

	var err error
	if req.TotalBalance, err = parseOptionalDecimal(body.TotalBalance); err != nil {
		return apperrors.BadRequestError(err, "invalid totalBalance")
	}
	if req.DepositAmount, err = parseOptionalDecimal(body.DepositAmount); err != nil {
		return apperrors.BadRequestError(err, "invalid depositAmount")
	}
	if req.PendingRewardUSDC, err = parseOptionalDecimal(body.PendingRewardUSDC); err != nil {
		return apperrors.BadRequestError(err, "invalid pendingRewardUsdc")
	}
	if req.PendingRewardProfit, err = parseOptionalDecimal(body.PendingRewardProfit); err != nil {
		return apperrors.BadRequestError(err, "invalid pendingRewardProfit")
	}
	if req.FrozenRewardUSDC, err = parseOptionalDecimal(body.FrozenRewardUSDC); err != nil {
		return apperrors.BadRequestError(err, "invalid frozenRewardUsdc")
	}
	if req.FrozenRewardProfit, err = parseOptionalDecimal(body.FrozenRewardProfit); err != nil {
		return apperrors.BadRequestError(err, "invalid frozenRewardProfit")
	}

	if err := h.service.EditUser(r.Context(), req); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) setUserStatus(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := apphttp.DecodeJSON(r, &body); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	if err := h.service.SetUserStatus(r.Context(), chi.URLParam(r, "username"), user.Status(body.Status)); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "username")); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type userStatsResponse struct {
	Total   int                    `json:"total"`
	Pending int                    `json:"pending"`
	Active  int                    `json:"active"`
	Banned  int                    `json:"banned"`
	Users   []userStatsRowResponse `json:"users"`
}

type userStatsRowResponse struct {
	Username          string `json:"username"`
	Status            string `json:"status"`
	OptimizationCount int    `json:"optimizationCount"`
	TotalBalance      string `json:"totalBalance"`
	VIPLevel          string `json:"vipLevel"`
}

func (h *handler) userStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.service.UserStats(r.Context())
	if err != nil {
		return err
	}

	res := userStatsResponse{
		Total:   stats.Counts.Total,
		Pending: stats.Counts.Pending,
		Active:  stats.Counts.Active,
		Banned:  stats.Counts.Banned,
		Users:   make([]userStatsRowResponse, 0, len(stats.Users)),
	}
	for _, row := range stats.Users {
		res.Users = append(res.Users, userStatsRowResponse{
			Username:          row.Username,
			Status:            string(row.Status),
			OptimizationCount: row.OptimizationCount,
			TotalBalance:      row.TotalBalance.StringFixed(2),
			VIPLevel:          string(row.VIPLevel),
		})
	}
	return apphttp.WriteJSON(w, http.StatusOK, res)
}

type frozenAccountResponse struct {
	Username      string `json:"username"`
	FreezingPoint int    `json:"freezingPoint"`
	LatestCount   int    `json:"optimizationCount"`
	TotalBalance  string `json:"totalBalance"`
}

func (h *handler) frozenAccounts(w http.ResponseWriter, r *http.Request) error {
	rows, err := h.service.FrozenAccounts(r.Context())
	if err != nil {
		return err
	}

	out := make([]frozenAccountResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, frozenAccountResponse{
			Username:      row.Username,
			FreezingPoint: row.FreezingPoint,
			LatestCount:   row.LatestCount,
			TotalBalance:  row.TotalBalance.StringFixed(2),
		})
	}
	return apphttp.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) resetCount(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.ResetOptimizationCount(r.Context(), chi.URLParam(r, "username")); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type resetActivityResponse struct {
	Username   string `json:"username"`
	ResetCount int    `json:"resetCount"`
	UpdatedAt  string `json:"updatedAt"`
}

func (h *handler) resetActivity(w http.ResponseWriter, r *http.Request) error {
	acts, err := h.service.ResetActivity(r.Context())
	if err != nil {
		return err
	}

	out := make([]resetActivityResponse, 0, len(acts))
	for _, act := range acts {
		out = append(out, resetActivityResponse{
			Username:   act.Username,
			ResetCount: act.ResetCount,
			UpdatedAt:  act.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return apphttp.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) clearResetCount(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.ClearResetCount(r.Context(), chi.URLParam(r, "username")); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) clearAllResetCounts(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.ClearAllResetCounts(r.Context()); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) createReferralCode(w http.ResponseWriter, r *http.Request) error {
	createdBy, _ := auth.UsernameFromContext(r.Context())

	code, err := h.service.CreateReferralCode(r.Context(), createdBy)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"code":    code.Code,
	})
}

type referralCodeResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Used      bool   `json:"used"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

func (h *handler) referralCodes(w http.ResponseWriter, r *http.Request) error {
	codes, err := h.service.ReferralCodes(r.Context())
	if err != nil {
		return err
	}

	out := make([]referralCodeResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, referralCodeResponse{
			ID:        code.ID,
			Code:      code.Code,
			Used:      code.Used,
			CreatedBy: code.CreatedBy,
			CreatedAt: code.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return apphttp.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) deleteReferralCode(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := h.service.DeleteReferralCode(r.Context(), id); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type withdrawalRowResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func (h *handler) withdrawals(w http.ResponseWriter, r *http.Request) error {
	wds, err := h.service.Withdrawals(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		return err
	}

	out := make([]withdrawalRowResponse, 0, len(wds))
	for _, wd := range wds {
		out = append(out, withdrawalRowResponse{
			ID:        wd.ID,
			Username:  wd.Username,
			Amount:    wd.Amount.StringFixed(2),
			Status:    string(wd.Status),
			CreatedAt: wd.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return apphttp.WriteJSON(w, http.StatusOK, out)
}

func (h *handler) setWithdrawalStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := apphttp.DecodeJSON(r, &body); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	if err := h.service.SetWithdrawalStatus(r.Context(), id, funding.Status(body.Status)); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) deleteWithdrawal(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	if err := h.service.DeleteWithdrawal(r.Context(), id); err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) resetProfits(w http.ResponseWriter, r *http.Request) error {
	affected, err := h.service.ResetAllProfits(r.Context())
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"accounts": affected,
	})
}

func parseOptionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid id")
	}
	return id, nil
}
