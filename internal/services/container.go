package services

import (
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/store"
)

// Services bundles every store-backed service around one store and one
// simulated network.
type Services struct {
	Profiles     ProfileService
	Transactions TransactionService
	Bills        BillService
	Goals        GoalService
	Family       FamilyMemberService
	Investments  InvestmentService
	Alerts       AlertService
	History      HistoryService
	Reports      ReportService
	Planner      PlannerService
	Ownership    OwnershipService
}

// New wires the services. A nil rng uses math/rand/v2.
func New(st *store.Store, net *netsim.Network, rng netsim.Rand) *Services {
	if rng == nil {
		rng = netsim.DefaultRand()
	}
	s := &Services{
		Profiles:     NewProfileService(st, net),
		Transactions: NewTransactionService(st, net),
		Bills:        NewBillService(st, net),
		Goals:        NewGoalService(st, net),
		Family:       NewFamilyMemberService(st, net),
		Investments:  NewInvestmentService(st, net),
		Alerts:       NewAlertService(st, net),
		History:      NewHistoryService(st, net),
		Reports:      NewReportService(st, net),
		Ownership:    NewOwnershipService(st),
	}
	s.Planner = &plannerService{
		transactions: s.Transactions,
		goals:        s.Goals,
		members:      s.Family,
		investments:  s.Investments,
		reports:      s.Reports,
		history:      s.History,
		now:          st.Now,
		rng:          rng,
	}
	return s
}
