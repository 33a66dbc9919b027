package api

import (
	"fmt"
	"wealthlens/internal/db/models/postgres/public/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateConnectorRequest struct {
	Name                   string  `json:"name"`
	URL                    string  `json:"url"`
	Method                 string  `json:"method"`
	Headers                *string `json:"headers"`
	RefreshIntervalSeconds int32   `json:"refreshIntervalSeconds"`
}

type UpdateConnectorRequest struct {
	Name                   *string `json:"name"`
	URL                    *string `json:"url"`
	Method                 *string `json:"method"`
	Headers                *string `json:"headers"`
	RefreshIntervalSeconds *int32  `json:"refreshIntervalSeconds"`
}

func (m ApiHandler) listConnectors(c *gin.Context) {
	userID, err := m.getOptionalUserID(c)
	if err != nil {
		returnErrorJsonCode(err, c, 401)
		return
	}

	connectors, err := m.ConnectorRepository.List(m.Db, userID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{
		"connectors": connectors,
	})
}

func (m ApiHandler) createConnector(c *gin.Context) {
	userID, err := m.getOptionalUserID(c)
	if err != nil {
		returnErrorJsonCode(err, c, 401)
		return
	}

	var requestBody CreateConnectorRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if requestBody.Name == "" || requestBody.URL == "" {
		returnErrorJsonCode(fmt.Errorf("name and url are required"), c, 400)
		return
	}

	connector, err := m.ConnectorRepository.Add(m.Db, model.Connector{
		UserID:                 userID,
		Name:                   requestBody.Name,
		URL:                    requestBody.URL,
		Method:                 requestBody.Method,
		Headers:                requestBody.Headers,
		RefreshIntervalSeconds: requestBody.RefreshIntervalSeconds,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, connector)
}

// ownedConnector loads a connector and rejects cross-user access. A
// connector without an owner is shared.
func (m ApiHandler) ownedConnector(c *gin.Context) (*model.Connector, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, fmt.Errorf("invalid connector id: %w", err)
	}

	userID, err := m.getOptionalUserID(c)
	if err != nil {
		return nil, err
	}

	connector, err := m.ConnectorRepository.Get(m.Db, id)
	if err != nil {
		return nil, err
	}

	if connector.UserID != nil && (userID == nil || *connector.UserID != *userID) {
		return nil, fmt.Errorf("connector %s does not belong to the caller", id)
	}

	return connector, nil
}

func (m ApiHandler) updateConnector(c *gin.Context) {
	connector, err := m.ownedConnector(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	var requestBody UpdateConnectorRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	if requestBody.Name != nil {
		connector.Name = *requestBody.Name
	}
	if requestBody.URL != nil {
		connector.URL = *requestBody.URL
	}
	if requestBody.Method != nil {
		connector.Method = *requestBody.Method
	}
	if requestBody.Headers != nil {
		connector.Headers = requestBody.Headers
	}
	if requestBody.RefreshIntervalSeconds != nil {
		connector.RefreshIntervalSeconds = *requestBody.RefreshIntervalSeconds
	}

	if err := m.ConnectorRepository.Update(m.Db, *connector); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, connector)
}

func (m ApiHandler) deleteConnector(c *gin.Context) {
	connector, err := m.ownedConnector(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	if err := m.ConnectorRepository.Delete(m.Db, connector.ConnectorID); err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, gin.H{"deleted": connector.ConnectorID.String()})
}

func (m ApiHandler) executeConnector(c *gin.Context) {
	connector, err := m.ownedConnector(c)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	result, err := m.ConnectorService.Execute(c.Request.Context(), connector.ConnectorID)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, result)
}
