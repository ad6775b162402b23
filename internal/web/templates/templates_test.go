package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/dataflow-project/dataflow/internal/transfer"
)

func TestLanding(t *testing.T) {
	var sb strings.Builder
	if err := Landing().Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"DataFlow",
		"/health",
		"/api/transfer",
		"/api/transfers",
		"/api/databases",
		"/api/databases/initialize",
		"/flow",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("landing page missing %q", want)
		}
	}
}

func TestFlowDiagram_Empty(t *testing.T) {
	var sb strings.Builder
	if err := FlowDiagram(nil).Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "No transfers yet") {
		t.Error("empty flow page missing placeholder text")
	}
	if strings.Contains(out, "<svg") {
		t.Error("empty flow page should not draw a diagram")
	}
}

func TestFlowDiagram_DrawsNodesAndEdges(t *testing.T) {
	transfers := []transfer.Status{
		{
			ID:                 "txn_0123456789abcdef01234567",
			State:              transfer.StateCompleted,
			SourceTable:        "users",
			DestinationTable:   "users_copy",
			RecordsTransferred: 5,
			TotalRecords:       5,
		},
		{
			ID:                 "txn_89abcdef0123456789abcdef",
			State:              transfer.StateFailed,
			SourceTable:        "orders",
			DestinationTable:   "orders_copy",
			RecordsTransferred: 2,
			TotalRecords:       7,
			ErrorMessage:       "insert batch: disk full",
		},
	}

	var sb strings.Builder
	if err := FlowDiagram(transfers).Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		"<svg",
		"source: users",
		"destination: users_copy",
		"source: orders",
		"destination: orders_copy",
		"5 records",
		"2 records",
		"status-completed",
		"status-failed",
		"2 / 7",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("flow page missing %q", want)
		}
	}
}

func TestFlowDiagram_EscapesTableNames(t *testing.T) {
	transfers := []transfer.Status{
		{
			ID:               "txn_0123456789abcdef01234567",
			State:            transfer.StateRunning,
			SourceTable:      "users<script>",
			DestinationTable: "users_copy",
		},
	}

	var sb strings.Builder
	if err := FlowDiagram(transfers).Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := sb.String()

	if strings.Contains(out, "<script>") {
		t.Error("table name was not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped table name not present")
	}
}
