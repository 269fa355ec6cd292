package main

import (
	"time"

	"github.com/goliatone/go-currency/core"
	"github.com/google/uuid"
)

const shutdownGrace = 5 * time.Second

// cliClient stands in for a region presence when the CLI talks to the
// ledger directly. Display calls are dropped.
type cliClient struct {
	cred core.SessionCredential
}

func (c cliClient) Credential() core.SessionCredential { return c.cred }
func (c cliClient) Name() string                       { return "" }

func (cliClient) SendMoneyBalance(uuid.UUID, bool, string, int) {}
func (cliClient) SendAlertMessage(string)                       {}
func (cliClient) SendAgentAlertMessage(string, bool)            {}
func (cliClient) SendInstantMessage(core.InstantMessage)        {}
func (cliClient) SendPayPrice(uuid.UUID, core.PayPrice)         {}
func (cliClient) SendEconomyData(core.EconomyData)              {}

var _ core.Client = cliClient{}
