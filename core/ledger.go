package core

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Remote procedures exposed by the money server.
const (
	MethodClientLogin        = "ClientLogin"
	MethodClientLogout       = "ClientLogout"
	MethodTransferMoney      = "TransferMoney"
	MethodForceTransferMoney = "ForceTransferMoney"
	MethodPayMoneyCharge     = "PayMoneyCharge"
	MethodAddBankerMoney     = "AddBankerMoney"
	MethodSendMoneyBalance   = "SendMoneyBalance"
	MethodGetBalance         = "GetBalance"
	MethodGetTransaction     = "GetTransaction"
)

const (
	bankerCreditDescription = "Add Money to Avatar"
	bonusCreditDescription  = "Bonus to Avatar"
)

type ClientLoginParams struct {
	UserServIP            string `json:"userServIP"`
	OpenSimServIP         string `json:"openSimServIP"`
	UserName              string `json:"userName"`
	ClientUUID            string `json:"clientUUID"`
	ClientSessionID       string `json:"clientSessionID"`
	ClientSecureSessionID string `json:"clientSecureSessionID"`
}

// ClientSessionParams is the parameter set of ClientLogout and GetBalance.
type ClientSessionParams struct {
	UserServIP            string `json:"userServIP"`
	ClientUUID            string `json:"clientUUID"`
	ClientSessionID       string `json:"clientSessionID"`
	ClientSecureSessionID string `json:"clientSecureSessionID"`
}

type GetTransactionParams struct {
	ClientSessionParams
	TransactionID string `json:"transactionID"`
}

type TransferMoneyParams struct {
	SenderUserServIP      string `json:"senderUserServIP"`
	SenderID              string `json:"senderID"`
	ReceiverUserServIP    string `json:"receiverUserServIP"`
	ReceiverID            string `json:"receiverID"`
	SenderSessionID       string `json:"senderSessionID,omitempty"`
	SenderSecureSessionID string `json:"senderSecureSessionID,omitempty"`
	TransactionType       int    `json:"transactionType"`
	ObjectID              string `json:"objectID"`
	RegionHandle          string `json:"regionHandle"`
	Amount                int    `json:"amount"`
	Description           string `json:"description"`
}

type PayMoneyChargeParams struct {
	SenderID              string `json:"senderID"`
	SenderSessionID       string `json:"senderSessionID"`
	SenderSecureSessionID string `json:"senderSecureSessionID"`
	TransactionType       int    `json:"transactionType"`
	Amount                int    `json:"amount"`
	RegionHandle          string `json:"regionHandle"`
	Description           string `json:"description"`
	SenderUserServIP      string `json:"senderUserServIP"`
}

type AddBankerMoneyParams struct {
	BankerUserServIP string `json:"bankerUserServIP"`
	BankerID         string `json:"bankerID"`
	TransactionType  int    `json:"transactionType"`
	Amount           int    `json:"amount"`
	RegionHandle     string `json:"regionHandle"`
	Description      string `json:"description"`
}

type SendMoneyBalanceParams struct {
	AvatarUserServIP string `json:"avatarUserServIP"`
	AvatarID         string `json:"avatarID"`
	TransactionType  int    `json:"transactionType"`
	Amount           int    `json:"amount"`
	SecretCode       string `json:"secretCode"`
	Description      string `json:"description"`
}

// LedgerWireReply is the flat reply record returned by every remote
// procedure. Operation specific fields are left zero when absent.
type LedgerWireReply struct {
	Success       bool   `json:"success"`
	ClientBalance *int   `json:"clientBalance,omitempty"`
	Message       string `json:"message,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	ErrorURI      string `json:"errorURI,omitempty"`
	Amount        int    `json:"amount,omitempty"`
	Type          int    `json:"type,omitempty"`
	Description   string `json:"description,omitempty"`
	Sender        string `json:"sender,omitempty"`
	Receiver      string `json:"receiver,omitempty"`
}

func (w LedgerWireReply) interpret() LedgerReply {
	message := strings.TrimSpace(w.Message)
	if message == "" {
		message = strings.TrimSpace(w.ErrorMessage)
	}
	return LedgerReply{
		Success:  w.Success,
		Balance:  w.ClientBalance,
		Message:  message,
		ErrorURI: w.ErrorURI,
	}
}

func formatRegionHandle(handle uint64) string {
	return strconv.FormatUint(handle, 10)
}

func (s *Service) userServer() string {
	return strings.TrimSpace(s.config.UserServerURL)
}

// callLedger performs one remote call bounded by the configured timeout. A
// transport failure yields the synthetic unavailable reply; a reachable
// ledger answering success=false yields a rejection. Both return an error.
func (s *Service) callLedger(ctx context.Context, method string, params any) (LedgerWireReply, LedgerReply, error) {
	if s.ledger == nil {
		s.logWarn(ctx, "ledger not configured", map[string]any{"method": method})
		return LedgerWireReply{}, LedgerReply{Message: UnavailableMessage}, errLedgerNotConfigured(method)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout())
	defer cancel()

	var wire LedgerWireReply
	if err := s.ledger.Call(callCtx, method, params, &wire); err != nil {
		s.logError(ctx, "ledger transport failure", map[string]any{
			"method":    method,
			"transport": s.ledger.Kind(),
			"error":     err.Error(),
		})
		return LedgerWireReply{}, unavailableReply(), errLedgerUnavailable(method, err)
	}

	reply := wire.interpret()
	if reply.Rejected() {
		s.logWarn(ctx, "ledger rejected request", map[string]any{
			"method":    method,
			"message":   reply.Message,
			"error_uri": reply.ErrorURI,
		})
		return wire, reply, errLedgerRejected(method, reply.Message)
	}
	return wire, reply, nil
}

// LoginToLedger announces a new root session to the money server and caches
// the balance it reports.
func (s *Service) LoginToLedger(ctx context.Context, client Client, region Region) (reply LedgerReply, err error) {
	startedAt := time.Now().UTC()
	cred := client.Credential()
	fields := map[string]any{"method": MethodClientLogin, "user_id": cred.UserID.String()}
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_client_login", err, fields)
	}()

	serverURI := ""
	if region != nil {
		serverURI = region.ServerURI()
	}
	_, reply, err = s.callLedger(ctx, MethodClientLogin, ClientLoginParams{
		UserServIP:            s.userServer(),
		OpenSimServIP:         serverURI,
		UserName:              client.Name(),
		ClientUUID:            cred.UserID.String(),
		ClientSessionID:       cred.SessionID.String(),
		ClientSecureSessionID: cred.SecureSessionID.String(),
	})
	if err != nil {
		return reply, err
	}
	if reply.Balance == nil {
		err = errLedgerRejected(MethodClientLogin, "reply carries no balance")
		reply.Success = false
		return reply, err
	}
	s.balances.Store(cred.UserID, *reply.Balance)
	return reply, nil
}

func (s *Service) LogoutFromLedger(ctx context.Context, client Client) (err error) {
	startedAt := time.Now().UTC()
	cred := client.Credential()
	fields := map[string]any{"method": MethodClientLogout, "user_id": cred.UserID.String()}
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_client_logout", err, fields)
	}()

	_, _, err = s.callLedger(ctx, MethodClientLogout, ClientSessionParams{
		UserServIP:            s.userServer(),
		ClientUUID:            cred.UserID.String(),
		ClientSessionID:       cred.SessionID.String(),
		ClientSecureSessionID: cred.SecureSessionID.String(),
	})
	return err
}

// TransferMoney moves currency on behalf of a sender with a live session.
func (s *Service) TransferMoney(ctx context.Context, op MoneyOperation) bool {
	return s.transferMoney(ctx, op) == nil
}

func (s *Service) transferMoney(ctx context.Context, op MoneyOperation) (err error) {
	startedAt := time.Now().UTC()
	fields := operationFields(MethodTransferMoney, op)
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_transfer_money", err, fields)
	}()

	sender, ok := s.Directory().FindSession(op.Sender)
	if !ok {
		err = errSessionNotFound(op.Sender)
		return err
	}
	cred := sender.Credential()
	params := transferParams(s.userServer(), op)
	params.SenderSessionID = cred.SessionID.String()
	params.SenderSecureSessionID = cred.SecureSessionID.String()
	_, _, err = s.callLedger(ctx, MethodTransferMoney, params)
	return err
}

// ForceTransferMoney moves currency without a sender session.
func (s *Service) ForceTransferMoney(ctx context.Context, op MoneyOperation) bool {
	return s.forceTransferMoney(ctx, op) == nil
}

func (s *Service) forceTransferMoney(ctx context.Context, op MoneyOperation) (err error) {
	startedAt := time.Now().UTC()
	fields := operationFields(MethodForceTransferMoney, op)
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_force_transfer_money", err, fields)
	}()

	_, _, err = s.callLedger(ctx, MethodForceTransferMoney, transferParams(s.userServer(), op))
	return err
}

func transferParams(userServer string, op MoneyOperation) TransferMoneyParams {
	return TransferMoneyParams{
		SenderUserServIP:   userServer,
		SenderID:           op.Sender.String(),
		ReceiverUserServIP: userServer,
		ReceiverID:         op.Receiver.String(),
		TransactionType:    int(op.Kind),
		ObjectID:           op.ObjectID.String(),
		RegionHandle:       formatRegionHandle(op.RegionHandle),
		Amount:             op.Amount,
		Description:        op.Description,
	}
}

// PayMoneyCharge debits a charge that has no receiving avatar, such as
// uploads and group creation.
func (s *Service) PayMoneyCharge(ctx context.Context, senderID uuid.UUID, amount int, kind TransactionType, regionHandle uint64, description string) bool {
	return s.payMoneyCharge(ctx, senderID, amount, kind, regionHandle, description) == nil
}

func (s *Service) payMoneyCharge(ctx context.Context, senderID uuid.UUID, amount int, kind TransactionType, regionHandle uint64, description string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"method":    MethodPayMoneyCharge,
		"kind":      kind.String(),
		"sender_id": senderID.String(),
		"amount":    amount,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_pay_money_charge", err, fields)
	}()

	sender, ok := s.Directory().FindSession(senderID)
	if !ok {
		err = errSessionNotFound(senderID)
		return err
	}
	cred := sender.Credential()
	_, _, err = s.callLedger(ctx, MethodPayMoneyCharge, PayMoneyChargeParams{
		SenderID:              senderID.String(),
		SenderSessionID:       cred.SessionID.String(),
		SenderSecureSessionID: cred.SecureSessionID.String(),
		TransactionType:       int(kind),
		Amount:                amount,
		RegionHandle:          formatRegionHandle(regionHandle),
		Description:           description,
		SenderUserServIP:      s.userServer(),
	})
	return err
}

// AddBankerMoney credits a banker avatar with purchased currency.
func (s *Service) AddBankerMoney(ctx context.Context, bankerID uuid.UUID, amount int, regionHandle uint64) bool {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"method":    MethodAddBankerMoney,
		"kind":      TransactionBuyMoney.String(),
		"banker_id": bankerID.String(),
		"amount":    amount,
	}
	_, _, err := s.callLedger(ctx, MethodAddBankerMoney, AddBankerMoneyParams{
		BankerUserServIP: s.userServer(),
		BankerID:         bankerID.String(),
		TransactionType:  int(TransactionBuyMoney),
		Amount:           amount,
		RegionHandle:     formatRegionHandle(regionHandle),
		Description:      bankerCreditDescription,
	})
	s.observeOperation(ctx, startedAt, "ledger_add_banker_money", err, fields)
	return err == nil
}

// SendMoneyBalance forwards a bonus credit together with its correlation
// token.
func (s *Service) SendMoneyBalance(ctx context.Context, avatarID uuid.UUID, amount int, secretToken string) bool {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"method":    MethodSendMoneyBalance,
		"kind":      TransactionReferBonus.String(),
		"avatar_id": avatarID.String(),
		"amount":    amount,
	}
	_, _, err := s.callLedger(ctx, MethodSendMoneyBalance, SendMoneyBalanceParams{
		AvatarUserServIP: s.userServer(),
		AvatarID:         avatarID.String(),
		TransactionType:  int(TransactionReferBonus),
		Amount:           amount,
		SecretCode:       secretToken,
		Description:      bonusCreditDescription,
	})
	s.observeOperation(ctx, startedAt, "ledger_send_money_balance", err, fields)
	return err == nil
}

// QueryBalance returns the user's balance. Without a configured money server
// the local cache answers; otherwise the ledger is asked and the cache is
// refreshed with its answer.
func (s *Service) QueryBalance(ctx context.Context, client Client) (balance int, err error) {
	startedAt := time.Now().UTC()
	cred := client.Credential()
	fields := map[string]any{"method": MethodGetBalance, "user_id": cred.UserID.String()}
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_get_balance", err, fields)
	}()

	if !s.config.LedgerConfigured() || s.ledger == nil {
		cached, ok := s.balances.Load(cred.UserID)
		if !ok {
			err = errNoCachedBalance(cred.UserID)
			return -1, err
		}
		return cached, nil
	}

	_, reply, err := s.callLedger(ctx, MethodGetBalance, ClientSessionParams{
		UserServIP:            s.userServer(),
		ClientUUID:            cred.UserID.String(),
		ClientSessionID:       cred.SessionID.String(),
		ClientSecureSessionID: cred.SecureSessionID.String(),
	})
	if err != nil {
		return -1, err
	}
	if reply.Balance == nil {
		err = errLedgerRejected(MethodGetBalance, "reply carries no balance")
		return -1, err
	}
	s.balances.Store(cred.UserID, *reply.Balance)
	return *reply.Balance, nil
}

func (s *Service) GetTransaction(ctx context.Context, client Client, transactionID uuid.UUID) (record TransactionRecord, err error) {
	startedAt := time.Now().UTC()
	cred := client.Credential()
	fields := map[string]any{
		"method":         MethodGetTransaction,
		"user_id":        cred.UserID.String(),
		"transaction_id": transactionID.String(),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "ledger_get_transaction", err, fields)
	}()

	wire, _, err := s.callLedger(ctx, MethodGetTransaction, GetTransactionParams{
		ClientSessionParams: ClientSessionParams{
			UserServIP:            s.userServer(),
			ClientUUID:            cred.UserID.String(),
			ClientSessionID:       cred.SessionID.String(),
			ClientSecureSessionID: cred.SecureSessionID.String(),
		},
		TransactionID: transactionID.String(),
	})
	if err != nil {
		return TransactionRecord{}, err
	}
	record = TransactionRecord{
		TransactionID: transactionID,
		Amount:        wire.Amount,
		Kind:          TransactionType(wire.Type),
		Description:   wire.Description,
	}
	if sender, parseErr := uuid.Parse(strings.TrimSpace(wire.Sender)); parseErr == nil {
		record.Sender = sender
	}
	if receiver, parseErr := uuid.Parse(strings.TrimSpace(wire.Receiver)); parseErr == nil {
		record.Receiver = receiver
	}
	return record, nil
}

func operationFields(method string, op MoneyOperation) map[string]any {
	return map[string]any{
		"method":        method,
		"kind":          op.Kind.String(),
		"sender_id":     op.Sender.String(),
		"receiver_id":   op.Receiver.String(),
		"amount":        op.Amount,
		"region_handle": op.RegionHandle,
	}
}
