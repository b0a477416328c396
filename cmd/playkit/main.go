package main

import (
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/playcli"
)

func main() {
	xmain.Main(playcli.Run)
}
