package validation_test

import (
	"testing"

	"github.com/skillmart/backend/api/transport"
	"github.com/skillmart/backend/internal/validation"
)

func findIssue(issues validation.Issues, field string) *validation.Issue {
	for i := range issues {
		if issues[i].Field == field {
			return &issues[i]
		}
	}
	return nil
}

func TestEmptyOrderItemsMessage(t *testing.T) {
	issues := validation.Check(transport.OrderRequest{Items: []transport.OrderItemRequest{}})
	if len(issues) == 0 {
		t.Fatalf("expected issues for empty order")
	}
	issue := findIssue(issues, "items")
	if issue == nil {
		t.Fatalf("no issue for items: %+v", issues)
	}
	if issue.Message != "At least one order item is required" {
		t.Fatalf("unexpected message %q", issue.Message)
	}
}

func TestOrderItemQuantityAndProduct(t *testing.T) {
	issues := validation.Check(transport.OrderRequest{Items: []transport.OrderItemRequest{
		{ProductID: "", Quantity: 0},
	}})
	if findIssue(issues, "items[0].product_id") == nil {
		t.Fatalf("missing product_id issue: %+v", issues)
	}
	if findIssue(issues, "items[0].quantity") == nil {
		t.Fatalf("missing quantity issue: %+v", issues)
	}
}

func TestValidOrderPasses(t *testing.T) {
	issues := validation.Check(transport.OrderRequest{Items: []transport.OrderItemRequest{
		{ProductID: "p1", Quantity: 2},
	}})
	if issues != nil {
		t.Fatalf("expected clean pass, got %+v", issues)
	}
}

func TestProductPriceBounds(t *testing.T) {
	issues := validation.Check(transport.ProductRequest{Name: "Widget", PriceCents: -1})
	if findIssue(issues, "price_cents") == nil {
		t.Fatalf("negative price accepted: %+v", issues)
	}

	if issues := validation.Check(transport.ProductRequest{Name: "Widget", PriceCents: 2999}); issues != nil {
		t.Fatalf("valid product rejected: %+v", issues)
	}
}

func TestAllViolationsReportedAtOnce(t *testing.T) {
	issues := validation.Check(transport.ProfileUpdateRequest{Email: "nope", Username: "ab"})
	if len(issues) != 2 {
		t.Fatalf("expected both violations, got %+v", issues)
	}
}

func TestRoleUpdateEnum(t *testing.T) {
	if issues := validation.Check(transport.RoleUpdateRequest{Role: "ROOT"}); findIssue(issues, "role") == nil {
		t.Fatalf("out-of-enum role accepted: %+v", issues)
	}
	if issues := validation.Check(transport.RoleUpdateRequest{Role: "WRITER"}); issues != nil {
		t.Fatalf("valid role rejected: %+v", issues)
	}
}
