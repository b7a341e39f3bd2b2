// Copyright 2026 The OpenShelf Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/openshelf/openshelf/internal/observability/logger"
)

// Supported database provider keys, matched case-insensitively.
const (
	ProviderPostgres  = "postgres"
	ProviderMySQL     = "mysql"
	ProviderSQLServer = "sqlserver"
)

// ConnStringValidator checks that a raw connection string is syntactically
// well-formed for a database provider without opening a connection.
type ConnStringValidator struct {
	log *slog.Logger
}

// NewConnStringValidator creates a new connection string validator
func NewConnStringValidator(log *slog.Logger) *ConnStringValidator {
	return &ConnStringValidator{log: log}
}

// Validate reports whether connString parses for the given provider.
// Unrecognized providers are not validated and pass; this is a deliberate
// permissive fallback for providers added ahead of validator support.
// Parse failures are logged with the tenant key and never escape as errors.
func (v *ConnStringValidator) Validate(provider, connString, tenantKey string) bool {
	var err error
	switch strings.ToLower(provider) {
	case ProviderPostgres, "postgresql":
		_, err = pgconn.ParseConfig(connString)
	case ProviderMySQL:
		_, err = mysql.ParseDSN(connString)
	case ProviderSQLServer, "mssql":
		_, err = msdsn.Parse(connString)
	default:
		return true
	}

	if err != nil {
		v.log.Error("invalid tenant connection string",
			logger.TenantKey(tenantKey),
			logger.String("provider", provider),
			logger.Error(err),
		)
		return false
	}

	return true
}
