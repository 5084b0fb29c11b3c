package api

import (
	"fmt"
	"net/http"

	"nft-query-router/internal/clients/analytics"

	"github.com/gin-gonic/gin"
)

// floorSeries pulls a floor price series out of collection stats records. A
// record either carries the whole series as a list or one point per record.
func floorSeries(records []map[string]interface{}) (labels []string, points []float64) {
	for _, rec := range records {
		switch v := rec["floor_price"].(type) {
		case []interface{}:
			for _, item := range v {
				if f, ok := item.(float64); ok {
					points = append(points, f)
				}
			}
			if dates, ok := rec["block_dates"].([]interface{}); ok && len(dates) == len(points) {
				for _, d := range dates {
					labels = append(labels, fmt.Sprint(d))
				}
			}
		case float64:
			points = append(points, v)
		}
	}
	if len(labels) != len(points) {
		labels = labels[:0]
		for i := range points {
			labels = append(labels, fmt.Sprintf("Point %d", i+1))
		}
	}
	return labels, points
}

func chartPayload(collectionID string, labels []string, points []float64) gin.H {
	if points == nil {
		points = []float64{}
	}
	if labels == nil {
		labels = []string{}
	}
	return gin.H{
		"type": "line",
		"data": gin.H{
			"labels": labels,
			"datasets": []gin.H{{
				"label":           collectionID + " Floor Price",
				"data":            points,
				"borderColor":     "#2196F3",
				"backgroundColor": "rgba(33, 150, 243, 0.2)",
				"fill":            true,
			}},
		},
		"options": gin.H{
			"responsive": true,
			"scales": gin.H{
				"y": gin.H{"title": gin.H{"display": true, "text": "Price (ETH)"}},
				"x": gin.H{"title": gin.H{"display": true, "text": "Time"}},
			},
		},
	}
}

func (s *Server) chartData(c *gin.Context) {
	id := c.Param("collection_id")
	res, err := s.data.CollectionStats(c.Request.Context(), analytics.ForCollection(id))
	if err != nil {
		s.lookupResult(c, nil, err)
		return
	}
	labels, points := floorSeries(res.Records)
	c.JSON(http.StatusOK, chartPayload(id, labels, points))
}
