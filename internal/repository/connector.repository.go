package repository

import (
	"fmt"
	"time"
	"wealthlens/internal/db/models/postgres/public/model"
	. "wealthlens/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type ConnectorRepository interface {
	Add(db qrm.Queryable, c model.Connector) (*model.Connector, error)
	Get(db qrm.Queryable, id uuid.UUID) (*model.Connector, error)
	List(db qrm.Queryable, userID *uuid.UUID) ([]model.Connector, error)
	Update(db qrm.Executable, c model.Connector) error
	Delete(db qrm.Executable, id uuid.UUID) error
}

type ConnectorRepositoryHandler struct{}

func (h ConnectorRepositoryHandler) Add(db qrm.Queryable, c model.Connector) (*model.Connector, error) {
	c.ConnectorID = uuid.New()
	c.CreatedAt = time.Now().UTC()

	query := Connector.
		INSERT(Connector.AllColumns).
		MODEL(c).
		RETURNING(Connector.AllColumns)

	out := &model.Connector{}
	err := query.Query(db, out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert connector: %w", err)
	}

	return out, nil
}

func (h ConnectorRepositoryHandler) Get(db qrm.Queryable, id uuid.UUID) (*model.Connector, error) {
	query := Connector.
		SELECT(Connector.AllColumns).
		WHERE(Connector.ConnectorID.EQ(postgres.UUID(id)))

	out := &model.Connector{}
	err := query.Query(db, out)
	if err != nil {
		return nil, fmt.Errorf("failed to get connector %s: %w", id, err)
	}

	return out, nil
}

func (h ConnectorRepositoryHandler) List(db qrm.Queryable, userID *uuid.UUID) ([]model.Connector, error) {
	query := listConnectorsQuery(userID)

	out := []model.Connector{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list connectors: %w", err)
	}

	return out, nil
}

// listConnectorsQuery scopes rows to the caller. Headers can carry auth
// tokens, so anonymous callers must only see ownerless connectors;
// authenticated callers additionally see their own.
func listConnectorsQuery(userID *uuid.UUID) postgres.SelectStatement {
	query := Connector.SELECT(Connector.AllColumns)
	if userID == nil {
		return query.WHERE(Connector.UserID.IS_NULL())
	}
	return query.WHERE(
		Connector.UserID.EQ(postgres.UUID(*userID)).OR(Connector.UserID.IS_NULL()),
	)
}

func (h ConnectorRepositoryHandler) Update(db qrm.Executable, c model.Connector) error {
	now := time.Now().UTC()
	c.UpdatedAt = &now

	query := Connector.
		UPDATE(Connector.Name, Connector.URL, Connector.Method, Connector.Headers, Connector.RefreshIntervalSeconds, Connector.UpdatedAt).
		MODEL(c).
		WHERE(Connector.ConnectorID.EQ(postgres.UUID(c.ConnectorID)))

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to update connector %s: %w", c.ConnectorID, err)
	}

	return nil
}

func (h ConnectorRepositoryHandler) Delete(db qrm.Executable, id uuid.UUID) error {
	query := Connector.
		DELETE().
		WHERE(Connector.ConnectorID.EQ(postgres.UUID(id)))

	_, err := query.Exec(db)
	if err != nil {
		return fmt.Errorf("failed to delete connector %s: %w", id, err)
	}

	return nil
}
