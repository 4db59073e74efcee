package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/safepay"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *safepay.Address {
	var a safepay.Address
	if defaultVal != "" {
		var err error
		a, err = safepay.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q safepay.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagAddress)(&a), name, usage)
	return &a
}

type flagAddress safepay.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return safepay.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := safepay.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flAddressList returns a list of addresses, filled by repeating the flag.
func flAddressList(fl *flag.FlagSet, name, usage string) *[]safepay.Address {
	var list []safepay.Address
	fl.Var((*addressList)(&list), name, usage)
	return &list
}

type addressList []safepay.Address

func (l addressList) String() string {
	s := make([]string, len(l))
	for i, a := range l {
		s[i] = a.String()
	}
	return strings.Join(s, ",")
}

func (l *addressList) Set(raw string) error {
	addr, err := safepay.ParseAddress(raw)
	if err != nil {
		return err
	}
	*l = append(*l, addr)
	return nil
}

// flagDie terminates the program because of an invalid flag value.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
