package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/aioracle/testutil/keeper"
	"github.com/paw-chain/aioracle/x/aioracle/types"
	"github.com/paw-chain/aioracle/x/shared/abci"
)

func (s *KeeperTestSuite) blockerIssues() []sdk.Event {
	var issues []sdk.Event
	for _, e := range s.ctx.EventManager().Events() {
		if e.Type == abci.EventTypeBlockerIssue {
			issues = append(issues, e)
		}
	}
	return issues
}

func severityOf(e sdk.Event) string {
	for _, a := range e.Attributes {
		if a.Key == "severity" {
			return a.Value
		}
	}
	return ""
}

func (s *KeeperTestSuite) TestEndBlockerHealthy() {
	s.mustCreateRequest("price")
	s.freshEvents()
	s.Require().NoError(s.keeper.EndBlocker(s.ctx))
	s.Require().Empty(s.blockerIssues())
}

func (s *KeeperTestSuite) TestEndBlockerReportsPendingWindow() {
	threshold, maxReq := uint64(1), uint64(3)
	_, err := s.msgServer.UpdateConfig(s.ctx, &types.MsgUpdateConfig{
		Sender:             s.owner.String(),
		NewCheckpoint:      &threshold,
		NewMaxReqThreshold: &maxReq,
	})
	s.Require().NoError(err)

	s.mustCreateRequest("price")
	s.mustCreateRequest("price")
	s.freshEvents()
	s.Require().NoError(s.keeper.EndBlocker(s.ctx))
	issues := s.blockerIssues()
	s.Require().Len(issues, 1)
	s.Require().Equal("low", severityOf(issues[0]))

	s.mustCreateRequest("price")
	s.freshEvents()
	s.Require().NoError(s.keeper.EndBlocker(s.ctx))
	issues = s.blockerIssues()
	s.Require().Len(issues, 1)
	s.Require().Equal("high", severityOf(issues[0]))
}

func (s *KeeperTestSuite) TestEndBlockerWithoutConfig() {
	f := keepertest.AIOracleKeeper(s.T())
	s.ctx = f.Ctx.WithEventManager(sdk.NewEventManager())

	s.Require().NoError(f.Keeper.EndBlocker(s.ctx))
	issues := s.blockerIssues()
	s.Require().Len(issues, 1)
	s.Require().Equal("critical", severityOf(issues[0]))
}
