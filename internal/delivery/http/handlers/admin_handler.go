package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/LavaJover/shvark-ledger-service/internal/usecase"
	batchdto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/batch"
	fundingdto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/funding"
	withdrawaldto "github.com/LavaJover/shvark-ledger-service/internal/usecase/dto/withdrawal"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminHandler - REST API админки: пополнения, заявки на вывод,
// массовые выплаты
type AdminHandler struct {
	Funding    usecase.FundingUsecase
	Withdrawal usecase.WithdrawalUsecase
	Batch      usecase.BatchUsecase
	Ledger     domain.LedgerRepository
	Executor   domain.PaymentExecutor
}

func NewAdminHandler(
	funding usecase.FundingUsecase,
	withdrawal usecase.WithdrawalUsecase,
	batch usecase.BatchUsecase,
	ledger domain.LedgerRepository,
	executor domain.PaymentExecutor,
) *AdminHandler {
	return &AdminHandler{
		Funding:    funding,
		Withdrawal: withdrawal,
		Batch:      batch,
		Ledger:     ledger,
		Executor:   executor,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	{
		admin.POST("/members", h.CreateMember)
		admin.POST("/funds", h.AddFunds)
		admin.GET("/members/:id/balance", h.GetBalance)
		admin.GET("/members/:id/ledger", h.GetLedgerEntries)
		admin.POST("/withdrawal-requests", h.CreateWithdrawalRequest)
		admin.GET("/withdrawal-requests", h.GetWithdrawalRequests)
		admin.GET("/withdrawal-requests/:id", h.GetWithdrawalRequest)
		admin.PUT("/withdrawal-requests/action", h.WithdrawalAction)
		admin.POST("/withdrawal-requests/batch-pay", h.BatchPay)
		admin.POST("/withdrawal-requests/batch-reject", h.BatchReject)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidWalletAddress),
		errors.Is(err, domain.ErrMissingExternalRef):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownMember),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateTransaction),
		errors.Is(err, domain.ErrMemberAlreadyExists),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrMemberInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCyclicSponsorChain):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

type createMemberRequest struct {
	ID            string `json:"id"`
	SponsorID     string `json:"sponsor_id"`
	WalletAddress string `json:"wallet_address"`
}

func (h *AdminHandler) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.WalletAddress != "" && !domain.ValidWalletAddress(req.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": domain.ErrInvalidWalletAddress.Error()})
		return
	}

	member := &domain.Member{
		ID:            req.ID,
		SponsorID:     req.SponsorID,
		WalletAddress: req.WalletAddress,
		Active:        true,
	}
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	if err := h.Ledger.CreateMember(member); err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             member.ID,
		"sponsor_id":     member.SponsorID,
		"wallet_address": member.WalletAddress,
		"active":         member.Active,
		"balance":        member.Balance.StringFixed(domain.MoneyScale),
	})
}

type addFundsRequest struct {
	MemberID           string          `json:"member_id" binding:"required"`
	Amount             decimal.Decimal `json:"amount"`
	IncludeCommissions bool            `json:"include_commissions"`
	ExternalTxRef      string          `json:"external_tx_ref"`
}

func (h *AdminHandler) AddFunds(c *gin.Context) {
	var req addFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	output, err := h.Funding.AddFunds(&fundingdto.AddFundsInput{
		MemberID:           req.MemberID,
		Amount:             req.Amount,
		IncludeCommissions: req.IncludeCommissions,
		ExternalTxRef:      req.ExternalTxRef,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	commissions := make([]gin.H, 0, len(output.Commissions))
	for _, share := range output.Commissions {
		commissions = append(commissions, gin.H{
			"sponsor_id": share.SponsorID,
			"level":      share.Level,
			"amount":     share.Amount.StringFixed(domain.MoneyScale),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"entry_id":               output.CreditedEntry.ID,
		"member_id":              output.CreditedEntry.MemberID,
		"amount":                 output.CreditedEntry.Amount.StringFixed(domain.MoneyScale),
		"commissions":            commissions,
		"total_commissions_paid": output.TotalCommissionsPaid.StringFixed(domain.MoneyScale),
	})
}

func (h *AdminHandler) GetBalance(c *gin.Context) {
	memberID := c.Param("id")
	balance, err := h.Ledger.GetBalance(memberID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"member_id": memberID,
		"balance":   balance.StringFixed(domain.MoneyScale),
	})
}

func (h *AdminHandler) GetLedgerEntries(c *gin.Context) {
	memberID := c.Param("id")
	page, limit := pagination(c)

	entries, total, err := h.Ledger.GetEntriesByMemberID(memberID, page, limit)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ledgerEntryJSON(entry))
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": items,
		"pagination": gin.H{
			"current_page": page,
			"limit":        limit,
			"total_items":  total,
		},
	})
}

type createWithdrawalRequest struct {
	MemberID      string          `json:"member_id" binding:"required"`
	Gross         decimal.Decimal `json:"gross"`
	Charges       decimal.Decimal `json:"charges"`
	WalletAddress string          `json:"wallet_address" binding:"required"`
	Gateway       string          `json:"gateway"`
}

func (h *AdminHandler) CreateWithdrawalRequest(c *gin.Context) {
	var req createWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	request, err := h.Withdrawal.CreateRequest(&withdrawaldto.CreateRequestInput{
		MemberID:      req.MemberID,
		Gross:         req.Gross,
		Charges:       req.Charges,
		WalletAddress: req.WalletAddress,
		Gateway:       req.Gateway,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, withdrawalJSON(request))
}

func (h *AdminHandler) GetWithdrawalRequests(c *gin.Context) {
	page, limit := pagination(c)

	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	output, err := h.Withdrawal.GetRequests(&withdrawaldto.GetRequestsInput{
		Page:     page,
		Limit:    limit,
		Statuses: statuses,
		Search:   c.Query("search"),
		MemberID: c.Query("member_id"),
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(output.Requests))
	for _, request := range output.Requests {
		items = append(items, withdrawalJSON(request))
	}
	c.JSON(http.StatusOK, gin.H{
		"requests": items,
		"pagination": gin.H{
			"current_page": output.Pagination.CurrentPage,
			"total_pages":  output.Pagination.TotalPages,
			"total_items":  output.Pagination.TotalItems,
			"limit":        output.Pagination.ItemsPerPage,
		},
	})
}

func (h *AdminHandler) GetWithdrawalRequest(c *gin.Context) {
	request, err := h.Withdrawal.GetRequestByID(c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, withdrawalJSON(request))
}

type withdrawalActionRequest struct {
	RequestID     string `json:"request_id" binding:"required"`
	Action        string `json:"action" binding:"required"`
	ExternalTxRef string `json:"external_tx_ref"`
}

func (h *AdminHandler) WithdrawalAction(c *gin.Context) {
	var req withdrawalActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var err error
	switch req.Action {
	case "approve":
		err = h.Withdrawal.Approve(req.RequestID, req.ExternalTxRef)
	case "complete":
		err = h.Withdrawal.Complete(req.RequestID)
	case "reject":
		err = h.Withdrawal.Reject(req.RequestID)
	case "cancel":
		err = h.Withdrawal.Cancel(req.RequestID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown action: " + req.Action})
		return
	}
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	request, err := h.Withdrawal.GetRequestByID(req.RequestID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, withdrawalJSON(request))
}

type batchRequest struct {
	RequestIDs []string `json:"request_ids" binding:"required"`
}

func (h *AdminHandler) BatchPay(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	report, err := h.Batch.RunBatch(c.Request.Context(), req.RequestIDs, h.Executor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reportJSON(report))
}

func (h *AdminHandler) BatchReject(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	report, err := h.Batch.RunBulkReject(c.Request.Context(), req.RequestIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reportJSON(report))
}

func pagination(c *gin.Context) (int64, int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 {
		limit = 50
	}
	return page, limit
}

func ledgerEntryJSON(entry *domain.LedgerEntry) gin.H {
	return gin.H{
		"id":                 entry.ID,
		"member_id":          entry.MemberID,
		"amount":             entry.Amount.StringFixed(domain.MoneyScale),
		"kind":               entry.Kind,
		"related_request_id": entry.RelatedRequestID,
		"external_tx_ref":    entry.ExternalTxRef,
		"created_at":         entry.CreatedAt,
	}
}

func withdrawalJSON(request *domain.WithdrawalRequest) gin.H {
	return gin.H{
		"id":              request.ID,
		"member_id":       request.MemberID,
		"gross":           request.Gross.StringFixed(domain.MoneyScale),
		"charges":         request.Charges.StringFixed(domain.MoneyScale),
		"net":             request.Net.StringFixed(domain.MoneyScale),
		"wallet_address":  request.WalletAddress,
		"status":          request.Status,
		"gateway":         request.Gateway,
		"external_tx_ref": request.ExternalTxRef,
		"created_at":      request.CreatedAt,
		"updated_at":      request.UpdatedAt,
	}
}

func reportJSON(report *batchdto.BatchReport) gin.H {
	return gin.H{
		"succeeded": itemsJSON(report.Succeeded),
		"failed":    itemsJSON(report.Failed),
		"skipped":   itemsJSON(report.Skipped),
		"total":     report.Total(),
	}
}

func itemsJSON(items []batchdto.BatchItem) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{
			"request_id":      item.RequestID,
			"member_id":       item.MemberID,
			"amount":          item.Amount.StringFixed(domain.MoneyScale),
			"external_tx_ref": item.ExternalTxRef,
			"error":           item.Error,
			"reason":          item.Reason,
		})
	}
	return out
}
