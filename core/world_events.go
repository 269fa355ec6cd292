package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	moneyTransferDescription = "OnMoneyTransfer event"
	objectBuyDescription     = "Object Buy"
	landPurchaseDescription  = "Land Purchase"

	alertInsufficientFunds = "Unable to buy now. You don't have sufficient funds"
	alertObjectNotFound    = "Unable to buy now. The object was not found"
	alertBalanceQuery      = "Fail to query the balance"
	alertBalanceSend       = "Unable to send your money balance"
)

// ClientLogin is called when a root agent enters a region. The ledger is told
// about the session and the returned balance is shown to the client.
func (s *Service) ClientLogin(ctx context.Context, userID uuid.UUID) (result LoginResult) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user_id": userID.String()}
	var err error
	defer func() {
		fields["logged_in"] = result.LoggedIn
		s.observeOperation(ctx, startedAt, "client_login", err, fields)
	}()

	if err = s.enabled(); err != nil {
		return LoginResult{}
	}
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		err = errSessionNotFound(userID)
		return LoginResult{}
	}
	region, _ := s.Directory().FindRegion(userID)

	reply, err := s.LoginToLedger(ctx, client, region)
	if err != nil {
		if reply.Message != "" {
			client.SendAlertMessage(reply.Message)
		}
		return LoginResult{}
	}
	client.SendMoneyBalance(uuid.Nil, true, "", *reply.Balance)
	return LoginResult{LoggedIn: true, Balance: *reply.Balance}
}

func (s *Service) ClientLogout(ctx context.Context, userID uuid.UUID) bool {
	if s.enabled() != nil {
		return false
	}
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		return false
	}
	return s.LogoutFromLedger(ctx, client) == nil
}

// MoneyTransfer handles a client initiated payment to an avatar or, for
// pay-object transfers, to the owner of the paid object.
func (s *Service) MoneyTransfer(ctx context.Context, event MoneyTransferEvent) bool {
	kind := event.Kind
	if kind == 0 {
		kind = TransactionGift
	}
	description := event.Description
	if description == "" {
		description = moneyTransferDescription
	}
	req := TransferRequest{
		Kind:        kind,
		Sender:      event.Sender,
		Receiver:    event.Receiver,
		Amount:      event.Amount,
		Description: description,
	}
	if kind == TransactionPayObject {
		req.ObjectID = event.Receiver
	}
	return s.AuthorizeAndTransfer(ctx, req)
}

// ObjectBuy completes an in-world purchase: the region delivers the object
// and the price is transferred to the object's owner.
func (s *Service) ObjectBuy(ctx context.Context, req ObjectBuyRequest) bool {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"kind":     TransactionPayObject.String(),
		"buyer_id": req.Buyer.String(),
		"local_id": req.LocalID,
		"amount":   req.SalePrice,
	}
	err := s.objectBuy(ctx, req)
	s.observeOperation(ctx, startedAt, "object_buy", err, fields)
	return err == nil
}

func (s *Service) objectBuy(ctx context.Context, req ObjectBuyRequest) error {
	if err := s.enabled(); err != nil {
		return err
	}
	if !s.config.SellEnabled {
		return errSellDisabled()
	}
	if req.SalePrice < 0 {
		return errNegativeAmount(req.SalePrice)
	}
	client, ok := s.Directory().FindSession(req.Buyer)
	if !ok {
		return errSessionNotFound(req.Buyer)
	}
	if req.SessionID != uuid.Nil && client.Credential().SessionID != req.SessionID {
		return errUnauthenticated("object buy session")
	}

	balance, err := s.QueryBalance(ctx, client)
	if err != nil {
		return err
	}
	if balance < req.SalePrice {
		client.SendAgentAlertMessage(alertInsufficientFunds, false)
		return errInsufficientFunds(balance, req.SalePrice)
	}

	region, ok := s.Directory().FindRegion(req.Buyer)
	if !ok {
		return errSessionNotFound(req.Buyer)
	}
	object, ok := region.ObjectByLocalID(req.LocalID)
	if !ok {
		client.SendAgentAlertMessage(alertObjectNotFound, false)
		return errObjectNotFound(uuid.Nil)
	}
	if !region.BuyObject(ctx, client, req) {
		return errSaleRefused(req.LocalID)
	}
	if object.OwnerID() == req.Buyer || req.SalePrice == 0 {
		return nil
	}
	return s.transferMoney(ctx, MoneyOperation{
		Kind:         TransactionPayObject,
		Sender:       req.Buyer,
		Receiver:     object.OwnerID(),
		Amount:       req.SalePrice,
		ObjectID:     object.ID(),
		RegionHandle: region.Handle(),
		Description:  objectBuyDescription,
	})
}

// ValidateLandBuy marks the purchase as economically validated when the
// buyer's balance covers the parcel price.
func (s *Service) ValidateLandBuy(ctx context.Context, buy *LandBuy) bool {
	if buy == nil || s.enabled() != nil {
		return false
	}
	buy.mu.Lock()
	defer buy.mu.Unlock()

	client, ok := s.Directory().FindSession(buy.AgentID)
	if !ok {
		return false
	}
	balance, err := s.QueryBalance(ctx, client)
	if err != nil {
		return false
	}
	if balance >= buy.ParcelPrice {
		buy.EconomyValidated = true
	}
	return buy.EconomyValidated
}

// ProcessLandBuy debits a validated land purchase once. AmountDebited is only
// set when the ledger accepted the transfer.
func (s *Service) ProcessLandBuy(ctx context.Context, buy *LandBuy) bool {
	if buy == nil {
		return false
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{"kind": TransactionLandSale.String()}

	buy.mu.Lock()
	defer buy.mu.Unlock()
	fields["buyer_id"] = buy.AgentID.String()
	fields["amount"] = buy.ParcelPrice

	err := s.enabled()
	switch {
	case err != nil:
	case !s.config.SellEnabled:
		err = errSellDisabled()
	case !buy.EconomyValidated:
		err = errInsufficientFunds(0, buy.ParcelPrice)
	case buy.TransactionID != 0:
		err = errLandBuyProcessed(buy.TransactionID)
	default:
		buy.TransactionID = s.now().Unix()
		err = s.authorizeAndTransfer(ctx, TransferRequest{
			Kind:         TransactionLandSale,
			Sender:       buy.AgentID,
			Receiver:     buy.ParcelOwnerID,
			Amount:       buy.ParcelPrice,
			RegionHandle: buy.RegionHandle,
			Description:  landPurchaseDescription,
		})
		if err == nil {
			buy.AmountDebited = buy.ParcelPrice
		}
	}
	s.observeOperation(ctx, startedAt, "land_buy", err, fields)
	return err == nil
}

// RequestBalance answers a client's balance request.
func (s *Service) RequestBalance(ctx context.Context, req BalanceRequest) bool {
	if s.enabled() != nil {
		return false
	}
	client, ok := s.Directory().FindSession(req.AgentID)
	if !ok {
		return false
	}
	if client.Credential().SessionID != req.SessionID {
		s.logWarn(ctx, "balance request session mismatch", map[string]any{"user_id": req.AgentID.String()})
		client.SendAlertMessage(alertBalanceSend)
		return false
	}
	balance, err := s.QueryBalance(ctx, client)
	if err != nil || balance < 0 {
		client.SendAlertMessage(alertBalanceQuery)
		return false
	}
	client.SendMoneyBalance(req.TransactionID, true, "", balance)
	return true
}

func (s *Service) RequestPayPrice(ctx context.Context, userID uuid.UUID, objectID uuid.UUID) bool {
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		return false
	}
	object, _, ok := s.Directory().FindObject(objectID)
	if !ok {
		s.logWarn(ctx, "pay price object not found", map[string]any{"object_id": objectID.String()})
		return false
	}
	client.SendPayPrice(object.ID(), object.PayPrice())
	return true
}

func (s *Service) SendEconomyData(ctx context.Context, userID uuid.UUID) bool {
	client, ok := s.Directory().FindSession(userID)
	if !ok {
		return false
	}
	client.SendEconomyData(s.EconomyData(userID))
	return true
}

func (s *Service) EconomyData(userID uuid.UUID) EconomyData {
	data := EconomyData{Prices: s.config.Prices}
	if region, ok := s.Directory().FindRegion(userID); ok {
		data.ObjectCapacity = region.ObjectCapacity()
	}
	return data
}

// ObjectGiveMoney pays from an object's owner to an avatar on behalf of a
// script. Offline owners are charged through a forced transfer.
func (s *Service) ObjectGiveMoney(ctx context.Context, objectID uuid.UUID, fromID uuid.UUID, toID uuid.UUID, amount int) bool {
	object, region, ok := s.Directory().FindObject(objectID)
	if !ok {
		s.logWarn(ctx, "give money object not found", map[string]any{"object_id": objectID.String()})
		return false
	}
	if object.OwnerID() != fromID {
		s.logWarn(ctx, "give money payer is not the object owner", map[string]any{
			"object_id": objectID.String(),
			"payer_id":  fromID.String(),
		})
		return false
	}
	_, online := s.Directory().FindSession(fromID)
	return s.AuthorizeAndTransfer(ctx, TransferRequest{
		Kind:         TransactionObjectPays,
		Sender:       fromID,
		Receiver:     toID,
		Amount:       amount,
		ObjectID:     object.ID(),
		RegionHandle: region.Handle(),
		Description:  fmt.Sprintf("Object %s pays %s", object.Name(), region.AccountName(toID)),
		Force:        !online,
	})
}
