package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
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

// RegisterRoutes registers the funding routes on the router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &handler{service: service, logger: logger}

	r.Post("/withdrawals", apphttp.HandleError(h.withdraw))
	r.Get("/withdrawals", apphttp.HandleError(h.withdrawals))
	r.Post("/wallets", apphttp.HandleError(h.saveWallet))
	r.Get("/wallets", apphttp.HandleError(h.wallets))
}

type withdrawRequest struct {
	Amount             string `json:"amount"`
	WithdrawalPassword string `json:"withdrawalPassword"`
}

type withdrawalResponse struct {
	ID        int64  `json:"id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	var req withdrawRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid amount")
	}

	wd, err := h.service.Withdraw(r.Context(), &WithdrawRequest{
		Username:           username,
		Amount:             amount,
		WithdrawalPassword: req.WithdrawalPassword,
	})
	if err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusCreated, toWithdrawalResponse(wd))
}

func (h *handler) withdrawals(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	wds, err := h.service.Withdrawals(r.Context(), username)
	if err != nil {
		return err
	}

	out := make([]withdrawalResponse, 0, len(wds))
	for _, wd := range wds {
		out = append(out, toWithdrawalResponse(wd))
	}
	return apphttp.WriteJSON(w, http.StatusOK, out)
}

type walletRequest struct {
	Name          string `json:"name"`
	Network       string `json:"network"`
	CryptoWallet  string `json:"cryptoWallet"`
	WalletAddress string `json:"walletAddress"`
}

func (h *handler) saveWallet(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	var req walletRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid request body")
	}

	if err := h.service.SaveWallet(r.Context(), &funding.Wallet{
		Username:      username,
		Name:          req.Name,
		Network:       req.Network,
		CryptoWallet:  req.CryptoWallet,
		WalletAddress: req.WalletAddress,
	}); err != nil {
		return err
	}

	return apphttp.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

type walletResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Network       string `json:"network"`
	CryptoWallet  string `json:"cryptoWallet"`
	WalletAddress string `json:"walletAddress"`
}

func (h *handler) wallets(w http.ResponseWriter, r *http.Request) error {
	username, err := sessionUsername(r)
	if err != nil {
		return err
	}

	ws, err := h.service.Wallets(r.Context(), username)
	if err != nil {
		return err
	}

	out := make([]walletResponse, 0, len(ws))
	for _, wlt := range ws {
		out = append(out, walletResponse{
			ID:            wlt.ID,
			Name:          wlt.Name,
			Network:       wlt.Network,
			CryptoWallet:  wlt.CryptoWallet,
			WalletAddress: wlt.WalletAddress,
		})
	}
	return apphttp.WriteJSON(w, http.StatusOK, out)
}

func toWithdrawalResponse(wd *funding.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:        wd.ID,
		Amount:    wd.Amount.StringFixed(2),
		Status:    string(wd.Status),
		CreatedAt: wd.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func sessionUsername(r *http.Request) (string, error) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok || username == "" {
		return "", apperrors.UnAuthorizedError(nil, "missing session")
	}
	return username, nil
}
