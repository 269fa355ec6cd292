package core

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestAuthorizeAndTransfer_SelfTransferMakesNoRemoteCall(t *testing.T) {
	region := newStubRegion(1000)
	user := region.add(newStubClient("Ada"))
	ledger := newStubLedger().reply(MethodGetBalance, balanceReply(1000))
	svc := newLedgerService(t, ledger, region)

	for _, amount := range []int{0, 1, 500} {
		if svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
			Kind:     TransactionGift,
			Sender:   user.cred.UserID,
			Receiver: user.cred.UserID,
			Amount:   amount,
		}) {
			t.Fatalf("expected self transfer of %d to be refused", amount)
		}
	}
	if len(ledger.calls) != 0 {
		t.Fatalf("expected no ledger calls, got %#v", ledger.calls)
	}
}

func TestAuthorizeAndTransfer_InsufficientBalanceSkipsTransfer(t *testing.T) {
	region := newStubRegion(1000)
	sender := region.add(newStubClient("Sender"))
	receiver := region.add(newStubClient("Receiver"))
	ledger := newStubLedger().
		reply(MethodGetBalance, balanceReply(99)).
		reply(MethodTransferMoney, LedgerWireReply{Success: true})
	svc := newLedgerService(t, ledger, region)

	if svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
		Kind:     TransactionGift,
		Sender:   sender.cred.UserID,
		Receiver: receiver.cred.UserID,
		Amount:   100,
	}) {
		t.Fatalf("expected insufficient funds refusal")
	}
	if got := ledger.count(MethodTransferMoney); got != 0 {
		t.Fatalf("expected no TransferMoney call, got %d", got)
	}
	if got := ledger.count(MethodGetBalance); got != 1 {
		t.Fatalf("expected one balance pre-check, got %d", got)
	}
}

func TestAuthorizeAndTransfer_ReplayIsNotDeduplicated(t *testing.T) {
	region := newStubRegion(1000)
	sender := region.add(newStubClient("Sender"))
	receiver := region.add(newStubClient("Receiver"))
	ledger := newStubLedger().
		reply(MethodGetBalance, balanceReply(1000)).
		reply(MethodTransferMoney, LedgerWireReply{Success: true})
	svc := newLedgerService(t, ledger, region)

	req := TransferRequest{
		Kind:         TransactionGift,
		Sender:       sender.cred.UserID,
		Receiver:     receiver.cred.UserID,
		Amount:       25,
		RegionHandle: 1000,
		Description:  "tip",
	}
	for attempt := 0; attempt < 2; attempt++ {
		if !svc.AuthorizeAndTransfer(context.Background(), req) {
			t.Fatalf("expected attempt %d to succeed", attempt)
		}
	}
	if got := ledger.count(MethodTransferMoney); got != 2 {
		t.Fatalf("expected the ledger to see both transfers, got %d", got)
	}
}

func TestAuthorizeAndTransfer_TransferParameters(t *testing.T) {
	region := newStubRegion(1099511628032000)
	sender := region.add(newStubClient("Sender"))
	receiver := region.add(newStubClient("Receiver"))
	ledger := newStubLedger().
		reply(MethodGetBalance, balanceReply(1000)).
		reply(MethodTransferMoney, LedgerWireReply{Success: true})
	svc := newLedgerService(t, ledger, region)

	if !svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
		Kind:        TransactionGift,
		Sender:      sender.cred.UserID,
		Receiver:    receiver.cred.UserID,
		Amount:      12,
		Description: "gift",
	}) {
		t.Fatalf("expected transfer to succeed")
	}
	raw, ok := ledger.last(MethodTransferMoney)
	if !ok {
		t.Fatalf("expected TransferMoney call")
	}
	params := raw.(TransferMoneyParams)
	if params.SenderID != sender.cred.UserID.String() || params.ReceiverID != receiver.cred.UserID.String() {
		t.Fatalf("unexpected identifiers: %#v", params)
	}
	if params.SenderSessionID != sender.cred.SessionID.String() || params.SenderSecureSessionID != sender.cred.SecureSessionID.String() {
		t.Fatalf("expected sender session credential in params: %#v", params)
	}
	if params.RegionHandle != "1099511628032000" {
		t.Fatalf("expected region handle from the sender's region, got %q", params.RegionHandle)
	}
	if params.TransactionType != int(TransactionGift) || params.Amount != 12 {
		t.Fatalf("unexpected kind/amount: %#v", params)
	}
	if params.SenderUserServIP != "http://users.test:8002" {
		t.Fatalf("expected user server address, got %q", params.SenderUserServIP)
	}
}

func TestAuthorizeAndTransfer_SellDisabled(t *testing.T) {
	region := newStubRegion(1000)
	sender := region.add(newStubClient("Sender"))
	receiver := region.add(newStubClient("Receiver"))
	ledger := newStubLedger().reply(MethodGetBalance, balanceReply(1000))
	svc, err := NewService(Config{MoneyServerURL: "http://ledger.test:8008"},
		WithLedger(ledger),
		WithSessionDirectory(stubDirectory{regions: []*stubRegion{region}}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
		Kind:     TransactionGift,
		Sender:   sender.cred.UserID,
		Receiver: receiver.cred.UserID,
		Amount:   1,
	}) {
		t.Fatalf("expected refusal with selling disabled")
	}
	if len(ledger.calls) != 0 {
		t.Fatalf("expected no ledger calls")
	}
}

func TestAuthorizeAndTransfer_RequiresLiveSessionUnlessForced(t *testing.T) {
	region := newStubRegion(1000)
	receiver := region.add(newStubClient("Receiver"))
	offline := uuid.New()
	ledger := newStubLedger().
		reply(MethodTransferMoney, LedgerWireReply{Success: true}).
		reply(MethodForceTransferMoney, LedgerWireReply{Success: true})
	svc := newLedgerService(t, ledger, region)

	req := TransferRequest{Kind: TransactionObjectPays, Sender: offline, Receiver: receiver.cred.UserID, Amount: 5}
	if svc.AuthorizeAndTransfer(context.Background(), req) {
		t.Fatalf("expected refusal without a live session")
	}
	if len(ledger.calls) != 0 {
		t.Fatalf("expected no ledger call for offline sender")
	}

	req.Force = true
	if !svc.AuthorizeAndTransfer(context.Background(), req) {
		t.Fatalf("expected forced transfer to succeed")
	}
	raw, _ := ledger.last(MethodForceTransferMoney)
	params := raw.(TransferMoneyParams)
	if params.SenderSessionID != "" || params.SenderSecureSessionID != "" {
		t.Fatalf("forced transfer must not carry session fields: %#v", params)
	}

	ledger.reply(MethodForceTransferMoney, LedgerWireReply{Success: false, Message: "overdrawn"})
	if svc.AuthorizeAndTransfer(context.Background(), req) {
		t.Fatalf("forced transfer must still require the ledger to succeed")
	}
}

func TestAuthorizeAndTransfer_PayObjectRedirectsToOwner(t *testing.T) {
	region := newStubRegion(1000)
	payer := region.add(newStubClient("Payer"))
	owner := uuid.New()
	object := region.addObject(stubObject{id: uuid.New(), localID: 7, name: "tip jar", owner: owner})
	ledger := newStubLedger().
		reply(MethodGetBalance, balanceReply(100)).
		reply(MethodTransferMoney, LedgerWireReply{Success: true})
	svc := newLedgerService(t, ledger, region)

	if !svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
		Kind:     TransactionPayObject,
		Sender:   payer.cred.UserID,
		Receiver: object.id,
		Amount:   10,
	}) {
		t.Fatalf("expected pay object transfer to succeed")
	}
	raw, _ := ledger.last(MethodTransferMoney)
	params := raw.(TransferMoneyParams)
	if params.ReceiverID != owner.String() {
		t.Fatalf("expected receiver redirected to owner %s, got %s", owner, params.ReceiverID)
	}
	if params.ObjectID != object.id.String() {
		t.Fatalf("expected object id %s, got %s", object.id, params.ObjectID)
	}
}

func TestAuthorizeAndTransfer_PayObjectMissingObject(t *testing.T) {
	region := newStubRegion(1000)
	payer := region.add(newStubClient("Payer"))
	ledger := newStubLedger().reply(MethodGetBalance, balanceReply(100))
	svc := newLedgerService(t, ledger, region)

	if svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
		Kind:     TransactionPayObject,
		Sender:   payer.cred.UserID,
		Receiver: uuid.New(),
		Amount:   10,
	}) {
		t.Fatalf("expected refusal for unresolvable object")
	}
	if len(ledger.calls) != 0 {
		t.Fatalf("expected no ledger calls, got %#v", ledger.calls)
	}
}

func TestAuthorizeAndTransfer_NegativeAmount(t *testing.T) {
	region := newStubRegion(1000)
	sender := region.add(newStubClient("Sender"))
	receiver := region.add(newStubClient("Receiver"))
	ledger := newStubLedger()
	svc := newLedgerService(t, ledger, region)

	if svc.AuthorizeAndTransfer(context.Background(), TransferRequest{
		Kind:     TransactionGift,
		Sender:   sender.cred.UserID,
		Receiver: receiver.cred.UserID,
		Amount:   -1,
	}) {
		t.Fatalf("expected negative amount refusal")
	}
	if len(ledger.calls) != 0 {
		t.Fatalf("expected no ledger calls")
	}
}
