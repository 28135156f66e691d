package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"sensorhub/pkg/hub"
	"sensorhub/pkg/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildReadingsXLSX renders a readings workbook for one device.
func BuildReadingsXLSX(device *models.Device, readings []models.Reading) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "readings"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Device")
	_ = f.SetCellValue(sheet, "B1", device.Name)
	_ = f.SetCellValue(sheet, "A2", "Device ID")
	_ = f.SetCellValue(sheet, "B2", device.ID)

	_ = f.SetCellValue(sheet, "A4", "Timestamp")
	_ = f.SetCellValue(sheet, "B4", "Temperature")
	_ = f.SetCellValue(sheet, "C4", "Humidity")
	for i, reading := range readings {
		row := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), reading.Timestamp.Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), reading.Temperature)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), reading.Humidity)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (rs *RestfulServer) ExportReadings(c *gin.Context) {
	deviceID := c.Param("device_id")

	device, err := rs.Hub.Device.GetDevice(deviceID)
	if err != nil {
		if errors.Is(err, hub.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	readings, err := rs.Hub.Reading.GetReadings(deviceID, &hub.ReadingQuery{Limit: hub.MaxQueryLimit})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	data, err := BuildReadingsXLSX(device, readings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=readings-%s.xlsx", device.ID))
	c.Data(http.StatusOK, xlsxContentType, data)
}
