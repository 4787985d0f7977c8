package iac

import (
	"strings"
	"text/template"
)

// Header prefixes every rendered document. A document with no contributing
// fields is exactly Header.
const Header = "# Terraform Configuration\n\n"

// blockSources holds one fixed block per field. The field value is the
// template's dot and is substituted verbatim: it is data, never re-parsed,
// so a value that contains "{{" lands in the output unchanged.
var blockSources = [fieldCount]string{
	Provider: `terraform {
  required_providers {
    aws = {
      source  = "hashicorp/aws"
      version = "~> 5.0"
    }
  }
}

provider "aws" {
  region = "{{.}}"
}`,
	Resource: `resource "aws_instance" "example" {
  ami           = "ami-0c55b159cbfafe1f0"
  instance_type = "t2.micro"

  tags = {
    Name = "{{.}}"
  }
}`,
	Variable: `variable "environment" {
  type        = string
  description = "{{.}}"
  default     = "dev"
}`,
	Output: `output "instance_id" {
  value       = aws_instance.example.id
  description = "{{.}}"
}`,
	Module: `module "vpc" {
  source = "./modules/vpc"

  name = "{{.}}"
}`,
	State: `data "terraform_remote_state" "shared" {
  backend = "local"

  config = {
    path = "{{.}}"
  }
}`,
	Locals: `locals {
  name_prefix = "{{.}}"
}`,
	Backend: `terraform {
  backend "s3" {
    bucket = "{{.}}"
    key    = "terraform.tfstate"
    region = "us-east-1"
  }
}`,
	VariableType: `variable "settings" {
  type = {{.}}
}`,
	Dynamic: `resource "aws_security_group" "example" {
  name = "example"

  dynamic "ingress" {
    for_each = {{.}}
    content {
      from_port   = ingress.value
      to_port     = ingress.value
      protocol    = "tcp"
      cidr_blocks = ["0.0.0.0/0"]
    }
  }
}`,
	ForEach: `resource "aws_s3_bucket" "each" {
  for_each = toset({{.}})

  bucket = each.key
}`,
	Terraform: `terraform {
  required_version = "{{.}}"
}`,
	Tags: `locals {
  tags = {
    Environment = "dev"
    Project     = "{{.}}"
  }
}`,
	Lifecycle: `resource "aws_instance" "managed" {
  ami           = "ami-0c55b159cbfafe1f0"
  instance_type = "t2.micro"

  lifecycle {
    {{.}}
  }
}`,
	Provisioner: `resource "null_resource" "provision" {
  provisioner "local-exec" {
    command = "{{.}}"
  }
}`,
}

var blocks = func() [fieldCount]*template.Template {
	var out [fieldCount]*template.Template
	for i, src := range blockSources {
		out[i] = template.Must(template.New(FieldKey(i).String()).Parse(src + "\n\n"))
	}
	return out
}()

// Render builds the document for fields. Blocks are emitted in declaration
// order regardless of the order of fields; when a key appears more than once
// the last entry wins. Fields with an invalid key are ignored.
func Render(fields []Field) string {
	var byKey [fieldCount]*Field
	for i := range fields {
		if fields[i].Key.Valid() {
			byKey[fields[i].Key] = &fields[i]
		}
	}

	var b strings.Builder
	b.WriteString(Header)
	for k, f := range byKey {
		if f == nil || !f.Selected || f.Value == "" {
			continue
		}
		// Blocks are static and the dot is a plain string; execution into a
		// strings.Builder cannot fail.
		_ = blocks[k].Execute(&b, f.Value)
	}
	return b.String()
}

// Block returns the block rendered for key with value, without the header.
// It returns "" for an invalid key or an empty value.
func Block(key FieldKey, value string) string {
	if !key.Valid() || value == "" {
		return ""
	}
	var b strings.Builder
	_ = blocks[key].Execute(&b, value)
	return b.String()
}
