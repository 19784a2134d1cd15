package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
)

type lineResult struct {
	line string
	err  error
}

// ProcessLines executes every line from reader until EOF, a quit command or
// cancellation of ctx. Failed commands are reported to out and do not stop
// the loop. If prompt is not empty it is written before each line is read.
func (c *Console) ProcessLines(ctx context.Context, reader LineReader, out io.Writer, prompt string) error {
	for {
		if prompt != "" {
			fmt.Fprint(out, prompt)
		}

		resultCh := make(chan lineResult, 1)
		go func() {
			line, err := reader.ReadLine()
			resultCh <- lineResult{line: line, err: err}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-resultCh:
			if errors.Is(res.err, io.EOF) {
				return nil
			}
			if res.err != nil {
				return fmt.Errorf("get line: %w", res.err)
			}

			err := c.ExecLine(out, res.line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				c.log.Debugw("command did not succeed", "line", res.line, "error", err)
			}
		}
	}
}

// Serve accepts connections from listener and runs a console on each, one
// connection at a time. It returns when ctx is cancelled or accepting fails.
func (c *Console) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("accept: %w", err)
		}

		c.log.Debug("console client connected")
		err = c.ProcessLines(ctx, NewReader(conn), conn, "")
		_ = conn.Close()

		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			c.log.Warnw("console client failed", "error", err)
		default:
			c.log.Debug("console client disconnected")
		}
	}
}
