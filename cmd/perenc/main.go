package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/percodec/per-go/lib/per"
)

func main() {
	var (
		typename   = flag.String("type", "", "type to encode: boolean, integer or octetstring")
		value      = flag.String("value", "", "value to encode: true/false, a decimal integer, or hex octets")
		aligned    = flag.Bool("aligned", false, "use the aligned variant (APER)")
		lower      = flag.String("lb", "", "lower bound of the constraint, empty for none")
		upper      = flag.String("ub", "", "upper bound of the constraint, empty for none")
		extensible = flag.Bool("extensible", false, "mark the constraint extensible")
	)
	flag.Parse()
	if len(*typename) == 0 {
		fmt.Println("Error: ", "type required ...")
		os.Exit(1)
	}

	lb, err := parseBound(*lower)
	if nil != err {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
	ub, err := parseBound(*upper)
	if nil != err {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}

	var encoded []byte
	switch *typename {
	case "boolean":
		b, err := strconv.ParseBool(*value)
		if nil != err {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
		encoded, err = per.EncodeBoolean(b, *aligned)
		if nil != err {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
	case "integer":
		n, err := strconv.ParseInt(*value, 10, 64)
		if nil != err {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
		encoded, err = per.EncodeInteger(n, *aligned, lb, ub, *extensible)
		if nil != err {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
	case "octetstring":
		data, err := hex.DecodeString(*value)
		if nil != err {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
		encoded, err = per.EncodeOctetString(data, *aligned, lb, ub, *extensible)
		if nil != err {
			fmt.Println("Error: ", err)
			os.Exit(1)
		}
	default:
		fmt.Println("Error: ", "unknown type "+*typename)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(encoded))
}

func parseBound(s string) (*int64, error) {
	if len(s) == 0 {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if nil != err {
		return nil, err
	}
	return &n, nil
}
