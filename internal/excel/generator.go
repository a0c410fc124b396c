package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/emert/crm-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(metrics model.DashboardMetrics, pipeline model.PipelineReport, revenue model.RevenueReport) ([]byte, error) {
	file := excelize.NewFile()

	dashboardSheet := "Dashboard"
	file.SetSheetName("Sheet1", dashboardSheet)
	if err := g.writeDashboard(file, dashboardSheet, metrics); err != nil {
		return nil, err
	}

	pipelineSheet := "Pipeline"
	file.NewSheet(pipelineSheet)
	if err := g.writePipeline(file, pipelineSheet, pipeline); err != nil {
		return nil, err
	}

	revenueSheet := "Revenue"
	file.NewSheet(revenueSheet)
	if err := g.writeRevenue(file, revenueSheet, revenue); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeDashboard(file *excelize.File, sheet string, metrics model.DashboardMetrics) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Metric")
	set("B1", "Value")

	rows := []struct {
		label string
		value interface{}
	}{
		{"Total clients", metrics.TotalClients},
		{"Total projects", metrics.TotalProjects},
		{"Active projects", metrics.ActiveProjects},
		{"Total quotes", metrics.TotalQuotes},
		{"Pending quotes", metrics.PendingQuotes},
		{"Total tasks", metrics.TotalTasks},
		{"Completed tasks", metrics.CompletedTasks},
		{"In-progress tasks", metrics.InProgressTasks},
		{"Total revenue", formatAmount(metrics.TotalRevenue)},
		{"Task completion rate, %", formatPercent(metrics.TaskCompletionRate)},
	}
	for i, row := range rows {
		set(fmt.Sprintf("A%d", i+2), row.label)
		set(fmt.Sprintf("B%d", i+2), row.value)
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	return nil
}

func (g *Generator) writePipeline(file *excelize.File, sheet string, pipeline model.PipelineReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Project status")
	set("B1", "Count")
	row := 2
	for _, status := range sortedKeys(pipeline.ProjectStatusDistribution) {
		set(fmt.Sprintf("A%d", row), status)
		set(fmt.Sprintf("B%d", row), pipeline.ProjectStatusDistribution[status])
		row++
	}

	row += 2
	set(fmt.Sprintf("A%d", row), "Quote status")
	set(fmt.Sprintf("B%d", row), "Count")
	row++
	for _, status := range sortedKeys(pipeline.QuoteStatusDistribution) {
		set(fmt.Sprintf("A%d", row), status)
		set(fmt.Sprintf("B%d", row), pipeline.QuoteStatusDistribution[status])
		row++
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 12)
	return nil
}

func (g *Generator) writeRevenue(file *excelize.File, sheet string, revenue model.RevenueReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Service type")
	set("B1", "Revenue")

	services := make([]string, 0, len(revenue.RevenueByService))
	for service := range revenue.RevenueByService {
		services = append(services, service)
	}
	sort.Strings(services)

	for i, service := range services {
		set(fmt.Sprintf("A%d", i+2), service)
		set(fmt.Sprintf("B%d", i+2), formatAmount(revenue.RevenueByService[service]))
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	return nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.1f", value)
}
