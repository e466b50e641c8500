package main

import (
	"context"
	"fmt"

	"github.com/SandyWyper/Know-How/core/content"
)

func (cli *commandLine) addPage(np content.NewPage) error {
	if err := np.Validate(cli.validate); err != nil {
		return err
	}
	p, err := cli.contentSvc.CreatePage(context.Background(), np)
	if err != nil {
		return err
	}
	fmt.Printf("page %q created at /page/%s (%s)\n", p.Title, p.Slug, p.Status)
	return nil
}

func (cli *commandLine) addNav(nnl content.NewNavigationList) error {
	if err := nnl.Validate(cli.validate); err != nil {
		return err
	}
	nl, err := cli.contentSvc.CreateNavigationList(context.Background(), nnl)
	if err != nil {
		return err
	}
	fmt.Printf("navigation list %q created with %d page(s)\n", nl.Name, len(nl.Pages))
	return nil
}
