package insights

import (
	"reflect"
	"testing"
)

func TestGenerateActionsAllRulesFire(t *testing.T) {
	snapshot := GlobalSnapshot{AverageMargin: 10, AverageBasket: 200}
	got := GenerateActions(snapshot, 30, 60, ExecutiveProfile().Actions)

	want := []RecommendedAction{ActionReviewPricing, ActionLoyaltyProgram, ActionDiversification, ActionCrossSelling}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected actions: %+v", got)
	}
	priorities := []Priority{PriorityUrgent, PriorityImportant, PriorityImportant, PriorityOpportunity}
	for i, action := range got {
		if action.Priority != priorities[i] {
			t.Fatalf("action %d: expected %s, got %s", i, priorities[i], action.Priority)
		}
	}
}

func TestGenerateActionsFallback(t *testing.T) {
	snapshot := GlobalSnapshot{AverageMargin: 20, AverageBasket: 400}
	got := GenerateActions(snapshot, 80, 10, ExecutiveProfile().Actions)
	if len(got) != 1 || got[0] != ActionMaintain {
		t.Fatalf("expected single maintain action, got %+v", got)
	}
	if got[0].Insight().Kind != KindSuccess {
		t.Fatalf("maintain action should map to a success insight")
	}
}

func TestGenerateActionsSingleRule(t *testing.T) {
	snapshot := GlobalSnapshot{AverageMargin: 20, AverageBasket: 400}
	got := GenerateActions(snapshot, 80, 51, ExecutiveProfile().Actions)
	if len(got) != 1 || got[0] != ActionDiversification {
		t.Fatalf("expected diversification only, got %+v", got)
	}
	if got[0].Insight().Kind != KindAction {
		t.Fatalf("expected action insight kind")
	}
}
