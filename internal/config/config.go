// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package config loads the mcomfpgad configuration.
//
// The file is YAML; any field left out keeps its default, e.g.
//
//	bus: 1
//	timeout: 60
//	kick_interval: 10s
//	retry:
//	  attempts: 5
package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/platinasystems/mcomwdt/internal/mcomfpga"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "/etc/goes/mcomfpgad.yaml"

type Config struct {
	Bus     int `yaml:"bus"`
	Address int `yaml:"address"`

	// Seconds; 0 keeps the timeout already in the device.
	Timeout uint32 `yaml:"timeout"`

	KickInterval time.Duration `yaml:"kick_interval"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Retry        Retry         `yaml:"retry"`

	// Leave the watchdog in down mode when the daemon is stopped.
	DisarmOnExit bool `yaml:"disarm_on_exit"`
}

// Retry paces the re-kicks after a failed kick.
type Retry struct {
	Min      time.Duration `yaml:"min"`
	Max      time.Duration `yaml:"max"`
	Factor   float64       `yaml:"factor"`
	Attempts int           `yaml:"attempts"`
}

func Default() *Config {
	return &Config{
		Bus:          0,
		Address:      mcomfpga.Address,
		KickInterval: 10 * time.Second,
		PollInterval: 30 * time.Second,
		Retry: Retry{
			Min:      100 * time.Millisecond,
			Max:      2 * time.Second,
			Factor:   2,
			Attempts: 3,
		},
	}
}

// Load returns the defaults overlaid with the given file. A missing file at
// DefaultPath isn't an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %v", err)
	}
	if err = yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %v", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %v", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.Bus < 0 {
		errs = append(errs, "bus: negative")
	}
	if c.Address <= 0 || c.Address > 0x7f {
		errs = append(errs, "address: not a 7-bit address")
	}
	if c.Timeout > mcomfpga.MaxTimeout {
		errs = append(errs, fmt.Sprint("timeout: exceeds ",
			mcomfpga.MaxTimeout, " seconds"))
	}
	if c.KickInterval <= 0 {
		errs = append(errs, "kick_interval: must be positive")
	}
	if c.PollInterval <= 0 {
		errs = append(errs, "poll_interval: must be positive")
	}
	if c.Retry.Attempts < 0 {
		errs = append(errs, "retry.attempts: negative")
	}
	if c.Retry.Min <= 0 || c.Retry.Max < c.Retry.Min {
		errs = append(errs, "retry: need 0 < min <= max")
	}
	if c.Retry.Factor < 1 {
		errs = append(errs, "retry.factor: less than 1")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// KickTooSlow reports whether kicks every KickInterval may let a watchdog
// with the given timeout expire.
func (c *Config) KickTooSlow(timeout uint32) bool {
	return timeout != 0 && c.KickInterval >= time.Duration(timeout)*time.Second
}
