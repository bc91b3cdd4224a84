// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mcomfpgad arms and keeps alive the MCOM FPGA watchdog and
// publishes its registers to redis.
package mcomfpgad

import (
	"errors"
	"fmt"
	"net/rpc"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/log"
	"github.com/platinasystems/mcomwdt/cmd"
	"github.com/platinasystems/mcomwdt/internal/config"
	"github.com/platinasystems/mcomwdt/internal/mcomfpga"
	"github.com/platinasystems/mcomwdt/internal/smbus"
	"github.com/platinasystems/mcomwdt/lang"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

const (
	Name = "mcomfpgad"

	// Prefix of the redis fields published and assigned by the daemon.
	Prefix = "mcom_fpga."

	TimeoutField  = "timeout.units.s"
	ModeField     = "mode"
	IdentityField = "identity"
)

// Device is the watchdog transport with its adapter setup.
type Device interface {
	mcomfpga.Transport
	Probe() error
	ConfigurePort() error
}

type printer interface {
	Print(...interface{}) (int, error)
}

type Command struct {
	Info
	Init func()
	init sync.Once

	// Open returns the device at BUS, ADDR; nil uses /dev/i2c-BUS.
	Open func(bus, addr int) (Device, error)
}

type Info struct {
	mutex  sync.Mutex
	rpc    *atsock.RpcServer
	pub    printer
	stop   chan struct{}
	last   map[string]string
	cfg    *config.Config
	ctl    *mcomfpga.Controller
	retry  *backoff.Backoff
	errlog *log.RateLimited
}

func (*Command) String() string { return Name }

func (*Command) Usage() string {
	return Name + " [-config FILE] [-bus N] [-addr A] [-timeout SECONDS]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "MCOM FPGA watchdog daemon, publishes to redis",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `DESCRIPTION
	Arm the MCOM FPGA watchdog and kick it every kick_interval. Retry
	a failed kick with exponential backoff.

	Every poll_interval, publish the readable registers as
	mcom_fpga.REGISTER along with mcom_fpga.mode and
	mcom_fpga.timeout.units.s. Writable registers, the mode and the
	timeout may be set with hset.

OPTIONS
	-config FILE	YAML configuration, default /etc/goes/mcomfpgad.yaml
	-bus N		overrides bus
	-addr A		overrides address
	-timeout S	overrides timeout; 0 keeps the device's timeout

	The watchdog stays armed after the daemon stops unless
	disarm_on_exit is set.`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func smbusOpen(bus, addr int) (Device, error) {
	d, err := smbus.Open(bus, addr)
	if err != nil {
		return nil, err
	}
	return d, nil
}

var errStopped = errors.New("stopped")

func (c *Command) Main(args ...string) error {
	c.stop = make(chan struct{})

	cfg, err := configure(args)
	if err != nil {
		return err
	}

	if c.Init != nil {
		c.init.Do(c.Init)
	}

	if err = redis.IsReady(); err != nil {
		return err
	}

	open := c.Open
	if open == nil {
		open = smbusOpen
	}
	d, err := open(cfg.Bus, cfg.Address)
	if err != nil {
		return err
	}

	c.errlog = log.NewRateLimited(10, time.Minute)
	defer c.errlog.Close()

	pub, err := publisher.New()
	if err != nil {
		return err
	}
	defer pub.Close()
	c.pub = pub

	if err = c.arm(cfg, d, c.listen); err != nil {
		if err == errStopped {
			err = nil
		}
		return err
	}
	defer c.rpc.Close()

	return c.run()
}

// listen serves hset of the assigned redis fields.
func (c *Command) listen() error {
	var err error
	if c.rpc, err = atsock.NewRpcServer(Name); err != nil {
		return err
	}
	rpc.Register(&c.Info)
	err = redis.Assign(redis.DefaultHash+":"+Prefix, Name, "Info")
	if err != nil {
		c.rpc.Close()
		c.rpc = nil
	}
	return err
}

// arm sets up and starts the watchdog then calls serve. The watchdog is
// stopped again if serve fails since nothing would kick it.
func (i *Info) arm(cfg *config.Config, d Device, serve func() error) error {
	select {
	case <-i.stop:
		return errStopped
	default:
	}
	if err := i.setup(cfg, d); err != nil {
		return err
	}
	err := serve()
	if err != nil {
		i.mutex.Lock()
		defer i.mutex.Unlock()
		if serr := i.ctl.Stop(); serr != nil {
			log.Print("daemon", "err", "disarm: ", serr)
		} else {
			log.Print("daemon", "info", "watchdog stopped")
		}
	}
	return err
}

// configure loads the config file then applies the command line overrides.
func configure(args []string) (*config.Config, error) {
	parm, args := parms.New(args, "-config", "-bus", "-addr", "-timeout")
	if len(args) > 0 {
		return nil, fmt.Errorf("%v: unexpected", args)
	}
	fn := parm.ByName["-config"]
	if len(fn) == 0 {
		fn = config.DefaultPath
	}
	cfg, err := config.Load(fn)
	if err != nil {
		return nil, err
	}
	for _, x := range []struct {
		name string
		bits int
		set  func(uint64)
	}{
		{"-bus", 8, func(u uint64) { cfg.Bus = int(u) }},
		{"-addr", 7, func(u uint64) { cfg.Address = int(u) }},
		{"-timeout", 16, func(u uint64) { cfg.Timeout = uint32(u) }},
	} {
		s := parm.ByName[x.name]
		if len(s) == 0 {
			continue
		}
		u, err := strconv.ParseUint(s, 0, x.bits)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", x.name, err)
		}
		x.set(u)
	}
	return cfg, cfg.Validate()
}

// setup probes, binds and arms the watchdog.
func (i *Info) setup(cfg *config.Config, d Device) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if err := d.Probe(); err != nil {
		return err
	}
	i.cfg = cfg
	i.last = make(map[string]string)
	i.retry = &backoff.Backoff{
		Min:    cfg.Retry.Min,
		Max:    cfg.Retry.Max,
		Factor: cfg.Retry.Factor,
		Jitter: true,
	}
	i.ctl = mcomfpga.Bind(d)
	if err := i.ctl.ResolveTimeout(cfg.Timeout); err != nil {
		return err
	}
	timeout := i.ctl.Timeout()
	log.Print("daemon", "info", "watchdog timeout set to ", timeout, "s")
	i.warnKickInterval(timeout)
	if err := d.ConfigurePort(); err != nil {
		return err
	}
	if err := i.ctl.Start(); err != nil {
		return err
	}
	log.Print("daemon", "info", mcomfpga.Identity, " started")
	i.publish(IdentityField, mcomfpga.Identity)
	i.publish(TimeoutField, fmt.Sprint(timeout))
	i.publish(ModeField, mcomfpga.Start.String())
	return nil
}

func (i *Info) run() error {
	kick := time.NewTicker(i.cfg.KickInterval)
	defer kick.Stop()
	poll := time.NewTicker(i.cfg.PollInterval)
	defer poll.Stop()
	for {
		select {
		case <-i.stop:
			return i.release()
		case <-kick.C:
			if err := i.kick(); err != nil {
				log.Print("daemon", "err", "kick: ", err)
			}
		case <-poll.C:
			if err := i.update(); err != nil {
				i.logerr("update: ", err)
			}
		}
	}
}

func (c *Command) Close() error {
	if c.stop != nil {
		close(c.stop)
	}
	return nil
}

// release disarms the watchdog if so configured; otherwise the watchdog
// resets the system unless another keeper takes over.
func (i *Info) release() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if !i.cfg.DisarmOnExit {
		log.Print("daemon", "warning", "watchdog left armed")
		return nil
	}
	if err := i.ctl.Stop(); err != nil {
		return err
	}
	log.Print("daemon", "info", "watchdog stopped")
	return nil
}

func (i *Info) kickOnce() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.ctl.Kick()
}

// kick retries a failed kick sequence up to Retry.Attempts times.
func (i *Info) kick() error {
	defer i.retry.Reset()
	err := i.kickOnce()
	for n := 0; err != nil && n < i.cfg.Retry.Attempts; n++ {
		i.logerr("kick retry ", n+1, ": ", err)
		select {
		case <-i.stop:
			return err
		case <-time.After(i.retry.Duration()):
		}
		err = i.kickOnce()
	}
	if err != nil {
		return fmt.Errorf("%d attempts: %w", i.cfg.Retry.Attempts+1, err)
	}
	return nil
}

// update publishes the registers that changed since the last update.
func (i *Info) update() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	m, err := i.ctl.Mode()
	if err != nil {
		return err
	}
	i.publish(ModeField, m.String())
	for _, r := range mcomfpga.Registers() {
		if !r.Readable() {
			continue
		}
		v, err := i.ctl.ReadRaw(r.Name)
		if err != nil {
			return err
		}
		i.publish(r.Name, mcomfpga.FormatWord(v))
		if r == mcomfpga.Uptime {
			i.publish(TimeoutField, fmt.Sprint(v))
		}
	}
	return nil
}

func (i *Info) publish(field, s string) {
	if s != i.last[field] {
		i.pub.Print(Prefix, field, ": ", s)
		i.last[field] = s
	}
}

func (i *Info) logerr(args ...interface{}) {
	a := append([]interface{}{"daemon", "err"}, args...)
	if i.errlog != nil {
		i.errlog.Print(a...)
	} else {
		log.Print(a...)
	}
}

func (i *Info) warnKickInterval(timeout uint32) {
	if i.cfg.KickTooSlow(timeout) {
		log.Print("daemon", "warning", "kick interval ",
			i.cfg.KickInterval, " isn't shorter than timeout ",
			timeout, "s")
	}
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	if !strings.HasPrefix(args.Field, Prefix) {
		return fmt.Errorf("cannot hset: %s", args.Field)
	}
	field := strings.TrimPrefix(args.Field, Prefix)
	s := string(args.Value)

	i.mutex.Lock()
	defer i.mutex.Unlock()

	switch field {
	case TimeoutField:
		u, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %v", args.Field, err)
		}
		if err = i.ctl.SetTimeout(uint32(u)); err != nil {
			return err
		}
		log.Print("daemon", "info", "watchdog timeout set to ", u, "s")
		i.warnKickInterval(uint32(u))
		i.publish(TimeoutField, fmt.Sprint(u))
		i.publish(mcomfpga.Uptime.Name, mcomfpga.FormatWord(uint16(u)))
	case ModeField:
		m, err := mcomfpga.ParseMode(s)
		if err != nil {
			return err
		}
		if err = i.ctl.SetMode(m); err != nil {
			return err
		}
		log.Print("daemon", "info", "watchdog mode ", m)
		i.publish(ModeField, m.String())
	case IdentityField:
		return fmt.Errorf("cannot hset: %s", args.Field)
	default:
		v, err := mcomfpga.ParseWord(s)
		if err != nil {
			return err
		}
		if err = i.ctl.WriteRaw(field, v); err != nil {
			return err
		}
		if r, _ := mcomfpga.Lookup(field); r.Readable() {
			i.publish(field, mcomfpga.FormatWord(v))
		}
		if field == mcomfpga.Uptime.Name {
			i.publish(TimeoutField, fmt.Sprint(v))
		}
	}
	*reply = 1
	return nil
}
