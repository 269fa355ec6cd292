package inbound

// Callback parameters use pointers so a missing field can be told apart from
// a zero value.

type ClientCredentialArgs struct {
	ClientUUID            *string `json:"clientUUID"`
	ClientSessionID       *string `json:"clientSessionID"`
	ClientSecureSessionID *string `json:"clientSecureSessionID"`
}

type UpdateBalanceArgs struct {
	ClientCredentialArgs
	Balance *int    `json:"Balance"`
	Message *string `json:"Message"`
}

type UserAlertArgs struct {
	ClientCredentialArgs
	Description *string `json:"Description"`
}

type MoneyTransferedArgs struct {
	SenderID              *string `json:"senderID"`
	ReceiverID            *string `json:"receiverID"`
	SenderSessionID       *string `json:"senderSessionID"`
	SenderSecureSessionID *string `json:"senderSecureSessionID"`
	TransactionType       *int    `json:"transactionType"`
	ObjectID              *string `json:"objectID"`
	Amount                *int    `json:"amount"`
}

type AddBankerMoneyArgs struct {
	BankerID              *string `json:"bankerID"`
	BankerSessionID       *string `json:"bankerSessionID"`
	BankerSecureSessionID *string `json:"bankerSecureSessionID"`
	Amount                *int    `json:"amount"`
}

type SendMoneyBalanceArgs struct {
	AvatarID   *string `json:"avatarID"`
	SecretCode *string `json:"secretCode"`
	Amount     *int    `json:"amount"`
}

type GetBalanceArgs struct {
	ClientID              *string `json:"clientID"`
	ClientSessionID       *string `json:"clientSessionID"`
	ClientSecureSessionID *string `json:"clientSecureSessionID"`
}

type Reply struct {
	Success bool `json:"success"`
}

type BalanceReply struct {
	Success bool `json:"success"`
	Balance int  `json:"balance"`
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
