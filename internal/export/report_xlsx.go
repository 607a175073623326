package export

import (
	"fmt"
	"time"

	"github.com/colis-next/internal/service"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Sheet1"

// clientReportHeaders 客户对账表列头
var clientReportHeaders = []string{
	"N° suivi",
	"Date prévue",
	"Destinataire",
	"Zone",
	"Statut",
	"Frais (MGA)",
	"Encaissement (MGA)",
	"Total dû (MGA)",
	"À reverser (MGA)",
}

// ClientReportWorkbook 生成客户对账 Excel 工作簿
func ClientReportWorkbook(summary *service.ClientSettlementSummary) (*excelize.File, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary is nil")
	}

	f := excelize.NewFile()

	if err := f.SetCellValue(reportSheet, "A1", "Client"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reportSheet, "B1", summary.Client.Name); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reportSheet, "A2", "Généré le"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reportSheet, "B2", time.Now().Format("2006-01-02 15:04")); err != nil {
		return nil, err
	}

	headerRow := 4
	for i, header := range clientReportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	row := headerRow + 1
	for _, line := range summary.Lines {
		delivery := line.Delivery
		collect := int64(0)
		if delivery.CollectAmount != nil {
			collect = *delivery.CollectAmount
		}
		values := []interface{}{
			delivery.TrackingNo,
			delivery.PlannedDate.Format("2006-01-02"),
			delivery.ReceiverName,
			delivery.Zone,
			delivery.Status,
			delivery.DeliveryPrice,
			collect,
			line.TotalDue,
			line.ClientAmount,
		}
		for i, value := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, err
			}
		}
		row++
	}

	totalsRow := row + 1
	totals := []struct {
		label string
		value int64
	}{
		{"Total frais", summary.TotalFees},
		{"Total encaissé", summary.TotalCollect},
		{"Net à reverser", summary.AmountDue},
	}
	for _, total := range totals {
		if err := f.SetCellValue(reportSheet, fmt.Sprintf("A%d", totalsRow), total.label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(reportSheet, fmt.Sprintf("B%d", totalsRow), total.value); err != nil {
			return nil, err
		}
		totalsRow++
	}

	return f, nil
}

// ClientReportFilename 导出文件名
func ClientReportFilename(clientName string, at time.Time) string {
	return fmt.Sprintf("compte-rendu-%s-%s.xlsx", sanitizeFilename(clientName), at.Format("20060102"))
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "client"
	}
	return string(out)
}
