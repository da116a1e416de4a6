// Copyright 2019 NDP Systèmes. All Rights Reserved.
// See LICENSE file for full licensing details.

package main

import "github.com/hexya-addons/boardresolutions/cmd"

func main() {
	cmd.Execute()
}
