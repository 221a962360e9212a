package main

import (
	"github.com/cds-snc/payload-signer/pkg/app"
	"github.com/cds-snc/payload-signer/pkg/cmd"
)

func main() {
	cmd.RunAndWait(app.NewBuilder().WithSigning().WithLedgerSigning())
}
