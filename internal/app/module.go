package app

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/prescripto/internal/account"
	"github.com/shandysiswandi/prescripto/internal/directory"
	"github.com/shandysiswandi/prescripto/internal/notification"
	"github.com/shandysiswandi/prescripto/internal/otp"
)

// module is one feature package behind its modules.<name>.enabled switch.
type module struct {
	name   string
	public map[string][]string
	init   func() error
}

func (a *App) modules() []module {
	return []module{
		{name: "otp", public: otp.PublicEndpoints, init: a.initOTP},
		{name: "notification", init: func() error {
			return notification.New(notification.Dependency{
				Config:     a.config,
				Instrument: a.ins,
				Clock:      a.clock,
				Validator:  a.validator,
				Router:     a.router,
				Mail:       a.mail,
				SMS:        a.sms,
			})
		}},
		{name: "directory", public: directory.PublicEndpoints, init: func() error {
			return directory.New(directory.Dependency{
				DBConn:     a.dbConn,
				Router:     a.router,
				Instrument: a.ins,
				Validator:  a.validator,
			})
		}},
		{name: "account", public: account.PublicEndpoints, init: func() error {
			return account.New(account.Dependency{
				DBConn:     a.dbConn,
				Router:     a.router,
				Instrument: a.ins,
				Validator:  a.validator,
				Bcrypt:     a.bcrypt,
				JWT:        a.jwt,
			})
		}},
	}
}

func (a *App) enabled(m module) bool {
	return a.config.GetBool("modules." + m.name + ".enabled")
}

func (a *App) initModules(context.Context) error {
	for _, m := range a.modules() {
		if !a.enabled(m) {
			continue
		}
		if err := m.init(); err != nil {
			return fmt.Errorf("module %s: %w", m.name, err)
		}
	}
	return nil
}

func (a *App) initOTP() error {
	dep := otp.Dependency{
		Router:     a.router,
		Mail:       a.mail,
		SMS:        a.sms,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Clock:      a.clock,
		Validator:  a.validator,
	}
	// A nil *redis.Client must not become a non-nil interface.
	if a.cacheConn != nil {
		dep.CacheConn = a.cacheConn
	}

	store, err := otp.New(dep)
	if err != nil {
		return err
	}
	a.onClose("otp store", func(context.Context) error { return store.Close() })

	return nil
}

// publicEndpoints merges the unauthenticated routes of every enabled module.
func (a *App) publicEndpoints() map[string][]string {
	out := map[string][]string{}
	for _, m := range a.modules() {
		if !a.enabled(m) {
			continue
		}
		for method, routes := range m.public {
			out[method] = append(out[method], routes...)
		}
	}
	return out
}
