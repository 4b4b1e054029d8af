package mysql

import (
	"net"
	"strconv"
)

func fmtAddr(host string, port int) string {

	if port == 0 {
		port = 3306
	}

	return net.JoinHostPort(host, strconv.Itoa(port))
}
