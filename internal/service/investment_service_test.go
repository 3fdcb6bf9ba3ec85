package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
)

func TestCreateInvestment(t *testing.T) {
	ctx := context.Background()
	user := &models.User{Email: "ada@example.com"}
	plan := &models.Plan{Name: "Gold", Limits: models.PlanLimits{Min: 100, Max: 1000}, ROIPercentage: 12, Duration: 30}

	newSvc := func() (InvestmentService, *InvestmentRepoMock) {
		invs := newInvestmentRepoMock()
		return NewInvestmentService(invs, newPlanRepoMock(plan), newUserRepoMock(user)), invs
	}

	t.Run("snapshots plan", func(t *testing.T) {
		svc, invs := newSvc()
		inv, err := svc.CreateInvestment(ctx, user.ID.Hex(), plan.ID.Hex(), 500)
		require.NoError(t, err)
		assert.Equal(t, models.InvestmentPending, inv.Status)
		assert.Equal(t, "ada@example.com", inv.Email)
		assert.Equal(t, plan.Snapshot(), inv.Plan)
		assert.Nil(t, inv.ExpiryDate)
		assert.Len(t, invs.investments, 1)
	})

	t.Run("amount outside limits", func(t *testing.T) {
		svc, invs := newSvc()
		for _, amount := range []float64{99.99, 1000.01} {
			_, err := svc.CreateInvestment(ctx, user.ID.Hex(), plan.ID.Hex(), amount)
			assert.ErrorIs(t, err, ErrAmountOutsidePlan, amount)
		}
		assert.Empty(t, invs.investments)
	})

	t.Run("limits are inclusive", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.CreateInvestment(ctx, user.ID.Hex(), plan.ID.Hex(), 1000)
		assert.NoError(t, err)
	})

	t.Run("unknown references", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.CreateInvestment(ctx, user.ID.Hex(), user.ID.Hex(), 500)
		assert.ErrorIs(t, err, ErrPlanNotFound)
		_, err = svc.CreateInvestment(ctx, plan.ID.Hex(), plan.ID.Hex(), 500)
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = svc.CreateInvestment(ctx, "nope", plan.ID.Hex(), 500)
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestUpdateInvestmentStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	newSvc := func(inv *models.Investment) (*investmentService, *InvestmentRepoMock) {
		invs := newInvestmentRepoMock(inv)
		svc := NewInvestmentService(invs, newPlanRepoMock(), newUserRepoMock()).(*investmentService)
		svc.now = func() time.Time { return now }
		return svc, invs
	}

	t.Run("activation derives dates once", func(t *testing.T) {
		inv := &models.Investment{Plan: models.PlanSnapshot{Duration: 30}, Status: models.InvestmentPending}
		svc, invs := newSvc(inv)

		got, err := svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentActive)
		require.NoError(t, err)
		require.NotNil(t, got.ExpiryDate)
		assert.Equal(t, now, *got.StartDate)
		assert.Equal(t, now.AddDate(0, 0, 30), *got.ExpiryDate)

		svc.now = func() time.Time { return now.Add(48 * time.Hour) }
		_, err = svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentPending)
		require.NoError(t, err)
		got, err = svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentActive)
		require.NoError(t, err)

		assert.Equal(t, 1, invs.activations)
		assert.Equal(t, now.AddDate(0, 0, 30), *got.ExpiryDate)
		assert.Equal(t, models.InvestmentActive, got.Status)
	})

	t.Run("zero duration leaves dates unset", func(t *testing.T) {
		inv := &models.Investment{Status: models.InvestmentPending}
		svc, invs := newSvc(inv)

		got, err := svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentActive)
		require.NoError(t, err)
		assert.Equal(t, models.InvestmentActive, got.Status)
		assert.Nil(t, got.ExpiryDate)
		assert.Zero(t, invs.activations)
	})

	t.Run("expired is reserved for the job", func(t *testing.T) {
		inv := &models.Investment{Status: models.InvestmentActive}
		svc, _ := newSvc(inv)
		_, err := svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentExpired)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("terminal status is final", func(t *testing.T) {
		inv := &models.Investment{Status: models.InvestmentFailed}
		svc, _ := newSvc(inv)
		_, err := svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentActive)
		assert.ErrorIs(t, err, ErrInvestmentFinal)
	})

	t.Run("expiry landing before the write wins", func(t *testing.T) {
		past := now.Add(-time.Hour)
		inv := &models.Investment{Status: models.InvestmentActive, ExpiryDate: &past}
		svc, invs := newSvc(inv)
		invs.beforeWrite = func() {
			_, err := invs.ExpireDue(ctx, now)
			require.NoError(t, err)
		}

		_, err := svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentPending)
		assert.ErrorIs(t, err, ErrInvestmentFinal)
		assert.Equal(t, models.InvestmentExpired, invs.investments[inv.ID].Status)
	})

	t.Run("activation does not revive a failed investment", func(t *testing.T) {
		inv := &models.Investment{Plan: models.PlanSnapshot{Duration: 30}, Status: models.InvestmentPending}
		svc, invs := newSvc(inv)
		invs.beforeWrite = func() { invs.investments[inv.ID].Status = models.InvestmentFailed }

		_, err := svc.UpdateInvestmentStatus(ctx, inv.ID.Hex(), models.InvestmentActive)
		assert.ErrorIs(t, err, ErrInvestmentFinal)
		assert.Equal(t, models.InvestmentFailed, invs.investments[inv.ID].Status)
		assert.Nil(t, invs.investments[inv.ID].ExpiryDate)
		assert.Zero(t, invs.activations)
	})

	t.Run("unknown investment", func(t *testing.T) {
		svc, _ := newSvc(&models.Investment{})
		_, err := svc.UpdateInvestmentStatus(ctx, "65f000000000000000000000", models.InvestmentFailed)
		assert.ErrorIs(t, err, ErrInvestmentNotFound)
	})
}

func TestExpireInvestments(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	due := &models.Investment{Status: models.InvestmentActive, ExpiryDate: &past}
	exact := &models.Investment{Status: models.InvestmentActive, ExpiryDate: &now}
	running := &models.Investment{Status: models.InvestmentActive, ExpiryDate: &future}
	pending := &models.Investment{Status: models.InvestmentPending, ExpiryDate: &past}

	invs := newInvestmentRepoMock(due, exact, running, pending)
	svc := NewInvestmentService(invs, newPlanRepoMock(), newUserRepoMock()).(*investmentService)
	svc.now = func() time.Time { return now }

	n, err := svc.ExpireInvestments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, models.InvestmentExpired, due.Status)
	assert.Equal(t, models.InvestmentExpired, exact.Status)
	assert.Equal(t, models.InvestmentActive, running.Status)
	assert.Equal(t, models.InvestmentPending, pending.Status)

	n, err = svc.ExpireInvestments(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreatePlanValidation(t *testing.T) {
	svc := NewInvestmentService(newInvestmentRepoMock(), newPlanRepoMock(), newUserRepoMock())
	ctx := context.Background()

	assert.Error(t, svc.CreatePlan(ctx, &models.Plan{Limits: models.PlanLimits{Min: 1, Max: 2}}))
	assert.Error(t, svc.CreatePlan(ctx, &models.Plan{Name: "x", Limits: models.PlanLimits{Min: 5, Max: 2}}))
	assert.Error(t, svc.CreatePlan(ctx, &models.Plan{Name: "x", Duration: -1}))
	assert.NoError(t, svc.CreatePlan(ctx, &models.Plan{Name: "Silver", Limits: models.PlanLimits{Min: 10, Max: 100}, Duration: 7}))
}
