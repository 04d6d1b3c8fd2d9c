package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/auriga-labs/authgate/internal/auth/inbound"
	"github.com/auriga-labs/authgate/internal/auth/outbound/db"
	"github.com/auriga-labs/authgate/internal/auth/outbound/ledger"
	"github.com/auriga-labs/authgate/internal/auth/outbound/mq"
	"github.com/auriga-labs/authgate/internal/auth/usecase"
	"github.com/auriga-labs/authgate/internal/pkg/clock"
	"github.com/auriga-labs/authgate/internal/pkg/config"
	"github.com/auriga-labs/authgate/internal/pkg/hash"
	"github.com/auriga-labs/authgate/internal/pkg/instrument"
	"github.com/auriga-labs/authgate/internal/pkg/jwt"
	"github.com/auriga-labs/authgate/internal/pkg/messaging"
	"github.com/auriga-labs/authgate/internal/pkg/otp"
	"github.com/auriga-labs/authgate/internal/pkg/router"
	"github.com/auriga-labs/authgate/internal/pkg/uid"
	"github.com/auriga-labs/authgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	Otp        otp.Generator              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	ledgerAuth := ledger.NewLedger(dep.CacheConn, dep.Clock, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoLedger:    ledgerAuth,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Password:      dep.Password,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Otp:           dep.Otp,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
