package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/travel-planner/backend/internal/models"
)

const (
	exportTypeOptions = "options"
	exportTypeSummary = "summary"
)

// ExportText выгружает текстовый план поездки.
func (h *TripHandler) ExportText(c echo.Context) error {
	itinerary, ok, err := h.find(c)
	if !ok {
		return err
	}

	filename := "trip-" + itinerary.ID.String() + ".txt"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(itinerary.PlanDetails))
}

// ExportCSV выгружает варианты или сводку бюджета в CSV-файл.
func (h *TripHandler) ExportCSV(c echo.Context) error {
	itinerary, ok, err := h.find(c)
	if !ok {
		return err
	}

	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeOptions
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch exportType {
	case exportTypeOptions:
		if err := writeOptionsCSV(writer, itinerary); err != nil {
			return serverError(c)
		}
	case exportTypeSummary:
		if err := writeSummaryCSV(writer, itinerary); err != nil {
			return serverError(c)
		}
	default:
		return badRequest(c, "invalid export type")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "trip-" + itinerary.ID.String() + "-" + exportType + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

type categorySection struct {
	category models.Category
	options  models.OptionList
}

func sections(itinerary models.Itinerary) []categorySection {
	out := make([]categorySection, 0, 3)
	if itinerary.Transportation != nil {
		out = append(out, categorySection{category: models.CategoryTransportation, options: *itinerary.Transportation})
	}
	out = append(out,
		categorySection{category: models.CategoryLodging, options: itinerary.Lodging},
		categorySection{category: models.CategoryActivities, options: itinerary.Activities},
	)
	return out
}

func writeOptionsCSV(writer *csv.Writer, itinerary models.Itinerary) error {
	header := []string{
		"itinerary_id",
		"category",
		"position",
		"title",
		"url",
		"price",
		"currency",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, section := range sections(itinerary) {
		for idx, option := range section.options {
			record := []string{
				itinerary.ID.String(),
				string(section.category),
				strconv.Itoa(idx + 1),
				option.Title,
				option.URL,
				option.Price.String(),
				itinerary.Request.Currency,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeSummaryCSV(writer *csv.Writer, itinerary models.Itinerary) error {
	header := []string{
		"itinerary_id",
		"category",
		"allocated",
		"found_total",
		"currency",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	allocated := map[models.Category]string{
		models.CategoryTransportation: itinerary.Allocation.Transportation.StringFixed(2),
		models.CategoryLodging:        itinerary.Allocation.Lodging.StringFixed(2),
		models.CategoryActivities:     itinerary.Allocation.Activities.StringFixed(2),
	}
	totals := map[models.Category]string{
		models.CategoryTransportation: itinerary.Totals.Transportation.StringFixed(2),
		models.CategoryLodging:        itinerary.Totals.Lodging.StringFixed(2),
		models.CategoryActivities:     itinerary.Totals.Activities.StringFixed(2),
	}

	for _, section := range sections(itinerary) {
		record := []string{
			itinerary.ID.String(),
			string(section.category),
			allocated[section.category],
			totals[section.category],
			itinerary.Request.Currency,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
